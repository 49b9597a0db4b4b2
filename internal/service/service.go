package service

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/ds124wfegd/gif-converter/config"
	"github.com/ds124wfegd/gif-converter/internal/entity"
	"github.com/ds124wfegd/gif-converter/internal/pkg/ffmpeg"
	"github.com/ds124wfegd/gif-converter/internal/pkg/kafka"
	"github.com/ds124wfegd/gif-converter/internal/pkg/processor"
	"github.com/ds124wfegd/gif-converter/internal/pkg/storage"
)

type ConversionService interface {
	SaveUpload(file *multipart.FileHeader) (string, error)
	Convert(ctx context.Context, req entity.ConversionRequest) (*entity.ConversionResult, error)
	FFmpegVersion(ctx context.Context) (string, error)
}

type conversionService struct {
	runner   ffmpeg.Runner
	uploads  storage.FileStorage
	temp     storage.FileStorage
	public   storage.FileStorage
	producer kafka.Producer
	poster   processor.PosterProcessor
	tokens   *TokenGenerator

	baseURL      string
	defaultFPS   int
	defaultScale string
	timeout      time.Duration
}

// NewConversionService wires the pipeline. Sources must live in uploads,
// palettes go to temp and GIFs to public. poster may be nil to skip
// thumbnail generation.
func NewConversionService(
	cfg config.AppConfig,
	runner ffmpeg.Runner,
	uploads storage.FileStorage,
	temp storage.FileStorage,
	public storage.FileStorage,
	producer kafka.Producer,
	poster processor.PosterProcessor,
) ConversionService {
	return &conversionService{
		runner:       runner,
		uploads:      uploads,
		temp:         temp,
		public:       public,
		producer:     producer,
		poster:       poster,
		tokens:       NewTokenGenerator(),
		baseURL:      cfg.BaseURL,
		defaultFPS:   cfg.DefaultFPS,
		defaultScale: cfg.DefaultScale,
		timeout:      cfg.ConversionTimeout,
	}
}
