package service

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/ds124wfegd/gif-converter/internal/entity"
	"github.com/ds124wfegd/gif-converter/internal/pkg/ffmpeg"
	"github.com/ds124wfegd/gif-converter/internal/pkg/storage"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SaveUpload stores the multipart file under a random name and returns its path.
func (s *conversionService) SaveUpload(file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	name := uuid.New().String()
	if err := s.uploads.Save(name, src); err != nil {
		removeQuietly(s.uploads, name)
		return "", fmt.Errorf("save upload: %w", err)
	}
	return s.uploads.Path(name)
}

// Convert runs the palette pass and then the encode pass. Each pass must
// finish before the next starts; any failure is terminal for the request.
func (s *conversionService) Convert(ctx context.Context, req entity.ConversionRequest) (*entity.ConversionResult, error) {
	if req.SourceFilePath == "" {
		return nil, entity.ErrMissingFile
	}
	sourceName, err := s.uploads.Rel(req.SourceFilePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrMissingFile, err)
	}
	if _, err := s.uploads.Stat(sourceName); err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrMissingFile, err)
	}

	req = s.normalize(req)
	job, err := s.newJob(req, sourceName)
	if err != nil {
		removeQuietly(s.uploads, sourceName)
		return nil, err
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	started := time.Now()
	log := logrus.WithFields(logrus.Fields{
		"token": job.Token,
		"fps":   req.FPS,
		"scale": req.Scale,
	})

	log.Info("Generating palette")
	if _, err := s.runner.Run(ctx, ffmpeg.PaletteArgs(job.SourceFilePath, job.PaletteFilePath, req.FPS, req.Scale)); err != nil {
		log.WithError(err).Error("Palette generation failed")
		removeQuietly(s.uploads, job.SourceName)
		s.publish(ctx, failedEvent(job, req, entity.PhasePalette, err, started))
		return nil, &entity.PaletteGenerationError{Err: err}
	}

	log.Info("Encoding gif")
	if _, err := s.runner.Run(ctx, ffmpeg.EncodeArgs(job.SourceFilePath, job.PaletteFilePath, job.OutputFilePath, req.FPS, req.Scale)); err != nil {
		log.WithError(err).Error("Encoding failed")
		s.cleanup(job)
		s.publish(ctx, failedEvent(job, req, entity.PhaseEncode, err, started))
		return nil, &entity.EncodingError{Err: err}
	}

	s.cleanup(job)

	result := &entity.ConversionResult{Token: job.Token, GifURL: s.publicURL(job.OutputName)}
	if s.poster != nil {
		result.PosterURL = s.makePoster(job, log)
	}

	log.WithField("duration", time.Since(started)).Info("Conversion completed")
	s.publish(ctx, entity.ConversionEvent{
		Token:      job.Token,
		Status:     entity.EventStatusCompleted,
		GifURL:     result.GifURL,
		FPS:        req.FPS,
		Scale:      req.Scale,
		DurationMs: time.Since(started).Milliseconds(),
		FinishedAt: time.Now().UTC(),
	})
	return result, nil
}

func (s *conversionService) FFmpegVersion(ctx context.Context) (string, error) {
	return ffmpeg.Version(ctx, s.runner)
}

func (s *conversionService) normalize(req entity.ConversionRequest) entity.ConversionRequest {
	if req.FPS <= 0 {
		req.FPS = s.defaultFPS
	}
	if req.Scale == "" {
		req.Scale = s.defaultScale
	}
	return req
}

func (s *conversionService) newJob(req entity.ConversionRequest, sourceName string) (*entity.ConversionJob, error) {
	token := s.tokens.Next()
	paletteName := token + "-palette.png"
	outputName := token + ".gif"

	palettePath, err := s.temp.Path(paletteName)
	if err != nil {
		return nil, err
	}
	outputPath, err := s.public.Path(outputName)
	if err != nil {
		return nil, err
	}

	return &entity.ConversionJob{
		Token:           token,
		SourceFilePath:  req.SourceFilePath,
		SourceName:      sourceName,
		PaletteFilePath: palettePath,
		PaletteName:     paletteName,
		OutputFilePath:  outputPath,
		OutputName:      outputName,
	}, nil
}

// cleanup drops the upload and the palette once the encode pass has run.
func (s *conversionService) cleanup(job *entity.ConversionJob) {
	removeQuietly(s.uploads, job.SourceName)
	removeQuietly(s.temp, job.PaletteName)
}

// makePoster never fails the request; an empty URL means no poster.
func (s *conversionService) makePoster(job *entity.ConversionJob, log *logrus.Entry) string {
	name := job.Token + "-poster.png"
	path, err := s.public.Path(name)
	if err == nil {
		err = s.poster.Generate(job.OutputFilePath, path)
	}
	if err != nil {
		log.WithError(err).Warn("Poster generation failed")
		return ""
	}
	return s.publicURL(name)
}

func (s *conversionService) publicURL(name string) string {
	return s.baseURL + "/" + name
}

func (s *conversionService) publish(ctx context.Context, event entity.ConversionEvent) {
	if err := s.producer.Publish(context.WithoutCancel(ctx), event); err != nil {
		logrus.WithError(err).WithField("token", event.Token).Warn("Failed to publish conversion event")
	}
}

func failedEvent(job *entity.ConversionJob, req entity.ConversionRequest, phase string, err error, started time.Time) entity.ConversionEvent {
	return entity.ConversionEvent{
		Token:      job.Token,
		Status:     entity.EventStatusFailed,
		Phase:      phase,
		Error:      err.Error(),
		FPS:        req.FPS,
		Scale:      req.Scale,
		DurationMs: time.Since(started).Milliseconds(),
		FinishedAt: time.Now().UTC(),
	}
}

// removeQuietly deletes temporary artifacts and ignores every error:
// cleanup must never change the outcome reported to the client.
func removeQuietly(store storage.FileStorage, names ...string) {
	for _, name := range names {
		if err := store.Delete(name); err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"root": store.Root(),
				"name": name,
			}).Debug("Cleanup skipped")
		}
	}
}
