package transport

import (
	"github.com/ds124wfegd/gif-converter/internal/pkg/storage"
	"github.com/ds124wfegd/gif-converter/internal/service"
)

type ConversionHandler struct {
	service service.ConversionService
	public  storage.FileStorage
}

func NewConversionHandler(service service.ConversionService, public storage.FileStorage) *ConversionHandler {
	return &ConversionHandler{service: service, public: public}
}
