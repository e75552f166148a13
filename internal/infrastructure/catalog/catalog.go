// Package catalog serve o conteúdo educativo das classes e as imagens de exemplo do dataset.
package catalog

import (
	"context"
	"math/rand/v2"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	domainerrors "github.com/rafabene/dermacheck-backend/internal/domain/errors"
)

// DefaultSampleSize é a quantidade de imagens de exemplo por classe
const DefaultSampleSize = 4

// DiseaseSummary é a entrada da listagem de doenças
type DiseaseSummary struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Explanation string `json:"explanation,omitempty"`
	ImageCount  int    `json:"image_count"`
}

// Catalog é somente leitura depois de criado
type Catalog struct {
	datasetDir string
	urlPrefix  string
	labels     []string
	shuffle    func(n int, swap func(i, j int))
}

// New cria o catálogo. labels vem do índice de classes do modelo; vazio usa as classes conhecidas.
func New(datasetDir, urlPrefix string, labels []string) *Catalog {
	if len(labels) == 0 {
		labels = make([]string, 0, len(diseases))
		for name := range diseases {
			labels = append(labels, name)
		}
	}
	return &Catalog{
		datasetDir: datasetDir,
		urlPrefix:  strings.TrimSuffix(urlPrefix, "/"),
		labels:     labels,
		shuffle:    rand.Shuffle,
	}
}

// List retorna as classes com a contagem atual de imagens, ordenadas pelo nome de exibição
func (c *Catalog) List(ctx context.Context) []DiseaseSummary {
	return c.summaries(ctx, false)
}

// Preview é como List, mas inclui a explicação
func (c *Catalog) Preview(ctx context.Context) []DiseaseSummary {
	return c.summaries(ctx, true)
}

func (c *Catalog) summaries(ctx context.Context, withExplanation bool) []DiseaseSummary {
	out := make([]DiseaseSummary, 0, len(c.labels))
	for _, name := range c.labels {
		if ctx.Err() != nil {
			break
		}
		info, ok := diseases[name]
		summary := DiseaseSummary{
			Name:        name,
			DisplayName: name,
			ImageCount:  len(c.imageFiles(name)),
		}
		if ok {
			summary.DisplayName = info.DisplayName
			if withExplanation {
				summary.Explanation = info.Explanation
			}
		}
		out = append(out, summary)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DisplayName < out[j].DisplayName
	})
	return out
}

// Get retorna o conteúdo da classe ou ErrDiseaseNotFound
func (c *Catalog) Get(name string) (DiseaseInfo, error) {
	info, ok := diseases[name]
	if !ok {
		return DiseaseInfo{}, domainerrors.ErrDiseaseNotFound
	}
	info.Name = name
	info.Treatment = append([]string(nil), info.Treatment...)
	return info, nil
}

// SampleImages sorteia até n imagens distintas da classe a cada chamada
func (c *Catalog) SampleImages(name string, n int) []string {
	files := c.imageFiles(name)
	if n <= 0 {
		n = DefaultSampleSize
	}

	c.shuffle(len(files), func(i, j int) {
		files[i], files[j] = files[j], files[i]
	})
	if len(files) > n {
		files = files[:n]
	}

	urls := make([]string, len(files))
	for i, file := range files {
		urls[i] = c.urlPrefix + "/" + url.PathEscape(name) + "/" + url.PathEscape(file)
	}
	return urls
}

// imageFiles lista os arquivos jpg/jpeg/png (qualquer caixa) do diretório da classe
func (c *Catalog) imageFiles(name string) []string {
	if !validDirName(name) {
		return nil
	}

	entries, err := os.ReadDir(filepath.Join(c.datasetDir, name))
	if err != nil {
		return nil
	}

	files := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".jpg", ".jpeg", ".png":
			files = append(files, entry.Name())
		}
	}
	return files
}

// validDirName impede que o nome da classe saia do diretório do dataset
func validDirName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}
