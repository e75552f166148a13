package ports

// PredictionMetrics registra métricas do pipeline de classificação
type PredictionMetrics interface {
	ObservePrediction(label string, confidence float64)
	HistoryPersistFailed()
}
