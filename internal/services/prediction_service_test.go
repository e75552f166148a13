package services

import (
	"bytes"
	"context"
	"encoding/base64"
	"image/jpeg"
	"math"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/rafabene/dermacheck-backend/internal/domain/entities"
	domainerrors "github.com/rafabene/dermacheck-backend/internal/domain/errors"
	"github.com/rafabene/dermacheck-backend/internal/domain/ports"
	"github.com/rafabene/dermacheck-backend/internal/infrastructure/inference"
)

var _ = Describe("PredictionService", func() {
	var (
		e     *env
		ctx   context.Context
		alice *entities.User
		svc   *PredictionService
	)

	BeforeEach(func() {
		e = newEnv()
		ctx = context.Background()
		alice = e.register("alice", "alice@example.com", "secret1")
		svc = NewPredictionService(newAdapter([]float64{0.7, 0.3}), e.predictions, e.metrics, e.events, e.logger, "")
	})

	Describe("Predict", func() {
		It("classifica um JPEG como Melanoma com confiança 0.7", func() {
			result, err := svc.Predict(ctx, alice, "lesion.jpg", jpegFixture(64, 48))
			Expect(err).NotTo(HaveOccurred())

			c := result.Classification
			Expect(c.Label).To(Equal("Melanoma"))
			Expect(c.Confidence).To(BeNumerically("~", 0.7, 1e-9))
			Expect(c.Distribution.AsMap()).To(HaveKeyWithValue("Nevus", BeNumerically("~", 0.3, 1e-9)))
			Expect(math.Abs(c.Distribution.Sum() - 1)).To(BeNumerically("<", 1e-6))

			top, _ := c.Distribution.Top()
			Expect(c.Confidence).To(Equal(top.Probability))
		})

		It("grava o histórico com o preview e publica o evento", func() {
			result, err := svc.Predict(ctx, alice, "lesion.jpg", jpegFixture(64, 48))
			Expect(err).NotTo(HaveOccurred())
			Expect(result.PreviewBase64).NotTo(BeEmpty())
			Expect(result.History).NotTo(BeNil())

			stored, err := e.predictions.FindByID(ctx, result.History.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored.UserID).To(Equal(alice.ID))
			Expect(stored.PredictedClass).To(Equal("Melanoma"))
			Expect(*stored.ImageBase64).To(Equal(result.PreviewBase64))
			Expect(stored.ImagePath).To(BeNil())
			Expect(entities.ParseDistribution(stored.AllProbabilities).AsMap()).To(HaveLen(2))

			Expect(e.metrics.labels).To(Equal([]string{"Melanoma"}))
			Expect(e.events.keys).To(ContainElement(ports.EventPredictionCreated))
		})

		It("devolve o resultado mesmo quando o histórico falha", func() {
			svc = NewPredictionService(newAdapter([]float64{0.7, 0.3}), failingPredictionRepo{e.predictions}, e.metrics, e.events, e.logger, "")

			result, err := svc.Predict(ctx, alice, "lesion.jpg", jpegFixture(64, 48))
			Expect(err).NotTo(HaveOccurred())
			Expect(result.Classification.Label).To(Equal("Melanoma"))
			Expect(result.History).To(BeNil())
			Expect(e.metrics.failures).To(Equal(1))

			last := e.events.payloads[len(e.events.payloads)-1].(ports.PredictionCreated)
			Expect(last.Persisted).To(BeFalse())
		})

		It("guarda o upload original quando configurado", func() {
			dir := GinkgoT().TempDir()
			svc = NewPredictionService(newAdapter([]float64{0.7, 0.3}), e.predictions, e.metrics, e.events, e.logger, dir)

			result, err := svc.Predict(ctx, alice, "Lesion.JPG", jpegFixture(32, 32))
			Expect(err).NotTo(HaveOccurred())
			Expect(result.History.ImagePath).NotTo(BeNil())

			path := *result.History.ImagePath
			Expect(filepath.Dir(path)).To(Equal(dir))
			Expect(filepath.Ext(path)).To(Equal(".jpg"))
			_, err = os.Stat(path)
			Expect(err).NotTo(HaveOccurred())
		})

		It("limita o preview a 800 px no maior lado", func() {
			result, err := svc.Predict(ctx, alice, "big.jpg", jpegFixture(1600, 400))
			Expect(err).NotTo(HaveOccurred())

			raw, err := base64.StdEncoding.DecodeString(result.PreviewBase64)
			Expect(err).NotTo(HaveOccurred())
			cfg, err := jpeg.DecodeConfig(bytes.NewReader(raw))
			Expect(err).NotTo(HaveOccurred())
			Expect(cfg.Width).To(Equal(800))
			Expect(cfg.Height).To(Equal(200))
		})

		DescribeTable("uploads inválidos",
			func(filename string, data []byte, expected error) {
				_, err := svc.Predict(ctx, alice, filename, data)
				Expect(err).To(MatchError(expected))
				Expect(e.metrics.labels).To(BeEmpty())
			},
			Entry("sem nome de arquivo", "", []byte("x"), domainerrors.ErrNoFileSelected),
			Entry("arquivo vazio", "lesion.jpg", []byte{}, domainerrors.ErrNoFileUploaded),
			Entry("extensão não permitida", "lesion.gif", []byte("GIF89a"), domainerrors.ErrUnsupportedFormat),
			Entry("bytes que não são imagem", "lesion.png", []byte("not an image"), domainerrors.ErrUnsupportedFormat),
		)

		It("modelo indisponível", func() {
			svc = NewPredictionService(inference.NewAdapter(nil, nil), e.predictions, e.metrics, e.events, e.logger, "")
			Expect(svc.ModelAvailable()).To(BeFalse())

			_, err := svc.Predict(ctx, alice, "lesion.jpg", jpegFixture(16, 16))
			Expect(err).To(MatchError(domainerrors.ErrModelUnavailable))
		})
	})

	Describe("histórico", func() {
		BeforeEach(func() {
			for i := 0; i < 25; i++ {
				e.addPrediction(alice.ID, "Nevus", 0.5)
			}
		})

		DescribeTable("RecentHistory limita entre 1 e 100",
			func(limit, expected int) {
				items, err := svc.RecentHistory(ctx, alice.ID, limit)
				Expect(err).NotTo(HaveOccurred())
				Expect(items).To(HaveLen(expected))
			},
			Entry("padrão", 0, DefaultHistoryLimit),
			Entry("negativo usa o padrão", -3, DefaultHistoryLimit),
			Entry("explícito", 5, 5),
			Entry("acima do total", 100, 25),
		)

		It("HistoryPage usa páginas de 20", func() {
			first, err := svc.HistoryPage(ctx, alice.ID, 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(first.Items).To(HaveLen(HistoryPageSize))
			Expect(first.TotalPages()).To(Equal(2))

			second, err := svc.HistoryPage(ctx, alice.ID, 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(second.Items).To(HaveLen(5))
		})
	})

	Describe("DeleteHistory", func() {
		var record *entities.PredictionHistory

		BeforeEach(func() {
			record = e.addPrediction(alice.ID, "Melanoma", 0.8)
		})

		It("o dono remove", func() {
			Expect(svc.DeleteHistory(ctx, alice, record.ID)).To(Succeed())
			stored, err := e.predictions.FindByID(ctx, record.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored).To(BeNil())
		})

		It("outro usuário recebe forbidden e o registro fica", func() {
			bob := e.register("bob", "bob@example.com", "secret1")

			Expect(svc.DeleteHistory(ctx, bob, record.ID)).To(MatchError(domainerrors.ErrForbidden))
			stored, err := e.predictions.FindByID(ctx, record.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(stored).NotTo(BeNil())
		})

		It("admin remove registro de outro usuário", func() {
			admin := e.register("root", "root@example.com", "secret1")
			e.promote(admin)
			Expect(svc.DeleteHistory(ctx, admin, record.ID)).To(Succeed())
		})

		It("registro inexistente", func() {
			Expect(svc.DeleteHistory(ctx, alice, "missing")).To(MatchError(domainerrors.ErrPredictionNotFound))
		})

		It("AdminDeletePrediction", func() {
			Expect(svc.AdminDeletePrediction(ctx, record.ID)).To(Succeed())
			Expect(svc.AdminDeletePrediction(ctx, record.ID)).To(MatchError(domainerrors.ErrPredictionNotFound))
		})
	})
})
