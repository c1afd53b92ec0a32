package service

import (
	"fablelens.app/analyzer/internal/queue"
	"fablelens.app/analyzer/internal/store"
)

type Services struct {
	stores         *store.Stores
	txRunner       TxRunner
	producer       queue.Producer
	uploadMaxBytes int64
}

type ServicesConfig struct {
	Stores         *store.Stores
	TxRunner       TxRunner
	Producer       queue.Producer
	UploadMaxBytes int64
}

func NewServices(cfg ServicesConfig) *Services {
	return &Services{
		stores:         cfg.Stores,
		txRunner:       cfg.TxRunner,
		producer:       cfg.Producer,
		uploadMaxBytes: cfg.UploadMaxBytes,
	}
}

func (s *Services) Library() LibraryService {
	return NewLibraryService(s.stores.Books(), s.uploadMaxBytes)
}

func (s *Services) Analyses() AnalysisService {
	return NewAnalysisService(s.stores.Books(), s.stores.Analyses(), s.producer)
}
