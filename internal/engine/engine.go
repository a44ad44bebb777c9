// Package engine exposes the forensic image authenticity facade: two entry
// points that fan a pixel buffer out to their detector suite, join the
// results and aggregate them into a suspicion report.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"go-image-forensics/internal/capability"
	"go-image-forensics/internal/config"
	apperrors "go-image-forensics/internal/errors"
	"go-image-forensics/internal/imaging"
	"go-image-forensics/internal/logger"
	"go-image-forensics/internal/manipulation"
	"go-image-forensics/internal/steganalysis"
	"go-image-forensics/pkg/models"
)

// detector is the uniform contract both suites satisfy.
type detector interface {
	Name() string
	Description() string
	Run(ctx context.Context, buf *imaging.PixelBuffer) (models.MethodResult, error)
}

// Engine is an immutable value constructed once with its capabilities and
// thresholds; it holds no per-analysis state and is safe for concurrent use.
type Engine struct {
	cfg        *config.Config
	thresholds config.Thresholds
	stegoSuite []steganalysis.Detector
	manipSuite []manipulation.Detector
	aggregator *Aggregator
	log        *logrus.Entry
}

// New builds an engine. Missing capabilities are allowed: the detectors that
// depend on them report capability errors at run time instead of running.
func New(cfg *config.Config, thresholds config.Thresholds, caps capability.Capabilities) *Engine {
	return &Engine{
		cfg:        cfg,
		thresholds: thresholds,
		stegoSuite: steganalysis.NewSuite(thresholds.Steganalysis, caps),
		manipSuite: manipulation.NewSuite(thresholds.Manipulation, caps),
		aggregator: NewAggregator(thresholds.Aggregation),
		log:        logger.ForComponent("engine"),
	}
}

// AnalyzeSteganography runs the five steganalysis detectors and aggregates
// their results.
func (e *Engine) AnalyzeSteganography(ctx context.Context, buf *imaging.PixelBuffer) (*models.AnalysisReport, error) {
	start := time.Now()
	if err := e.checkBuffer(buf); err != nil {
		return nil, err
	}

	detectors := make([]detector, len(e.stegoSuite))
	for i, d := range e.stegoSuite {
		detectors[i] = d
	}
	methods := e.runSuite(ctx, buf, detectors)
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewTimeoutError("analysis cancelled", err)
	}

	report := e.aggregator.Aggregate(models.KindSteganography, imageInfo(buf), methods, nil)
	e.stamp(report, start)
	return report, nil
}

// AnalyzeManipulation runs the three pixel-domain manipulation detectors
// plus the metadata consistency checker. tags may be nil when no metadata
// collaborator output is available.
func (e *Engine) AnalyzeManipulation(ctx context.Context, buf *imaging.PixelBuffer, tags models.TagMap) (*models.AnalysisReport, error) {
	start := time.Now()
	if err := e.checkBuffer(buf); err != nil {
		return nil, err
	}

	detectors := make([]detector, len(e.manipSuite))
	for i, d := range e.manipSuite {
		detectors[i] = d
	}
	methods := e.runSuite(ctx, buf, detectors)
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewTimeoutError("analysis cancelled", err)
	}

	findings := manipulation.CheckConsistency(tags, buf.Width, buf.Height, e.thresholds.Manipulation)

	report := e.aggregator.Aggregate(models.KindManipulation, imageInfo(buf), methods, findings)
	e.stamp(report, start)
	return report, nil
}

// checkBuffer rejects unusable buffers before any detector runs. This is the
// only failure that aborts a whole analysis; everything downstream is folded
// into per-method results.
func (e *Engine) checkBuffer(buf *imaging.PixelBuffer) error {
	if err := buf.Validate(); err != nil {
		return err
	}
	if buf.Width*buf.Height > e.cfg.MaxPixels {
		return apperrors.NewDecodeError(
			fmt.Sprintf("image of %d pixels exceeds the %d pixel limit", buf.Width*buf.Height, e.cfg.MaxPixels), nil)
	}
	return nil
}

// runSuite fans the detectors out on a bounded worker pool and joins before
// returning. One detector failing, timing out or panicking never disturbs
// its siblings.
func (e *Engine) runSuite(ctx context.Context, buf *imaging.PixelBuffer, detectors []detector) map[string]models.MethodResult {
	workers := e.cfg.MaxWorkers
	if workers <= 0 || workers > len(detectors) {
		workers = len(detectors)
	}

	pool := NewWorkerPool(workers)
	pool.Start()
	defer pool.Close()

	results := make(map[string]models.MethodResult, len(detectors))
	var mu sync.Mutex

	for _, d := range detectors {
		d := d
		pool.Submit(func() {
			result := e.runDetector(ctx, d, buf)
			mu.Lock()
			results[d.Name()] = result
			mu.Unlock()
		})
	}
	pool.Wait()

	return results
}

// runDetector executes one detector under its soft time budget with panic
// recovery, folding every failure mode into the method result.
func (e *Engine) runDetector(ctx context.Context, d detector, buf *imaging.PixelBuffer) (result models.MethodResult) {
	defer func() {
		if r := recover(); r != nil {
			e.log.WithField("method", d.Name()).Errorf("detector panic: %v", r)
			result = e.errorResult(d, apperrors.NewInternalError(fmt.Sprintf("detector panic: %v", r), nil))
		}
	}()

	dctx, cancel := context.WithTimeout(ctx, e.cfg.DetectorTimeout)
	defer cancel()

	started := time.Now()
	result, err := d.Run(dctx, buf)
	elapsed := time.Since(started)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = apperrors.NewTimeoutError(
				fmt.Sprintf("exceeded %s budget", e.cfg.DetectorTimeout), err)
		}
		e.log.WithFields(logrus.Fields{
			"method":  d.Name(),
			"elapsed": elapsed.Seconds(),
		}).WithError(err).Warn("detector failed")
		return e.errorResult(d, err)
	}

	e.log.WithFields(logrus.Fields{
		"method":  d.Name(),
		"score":   result.SuspicionScore,
		"elapsed": elapsed.Seconds(),
	}).Debug("detector completed")
	return result
}

// errorResult builds the transparent placeholder for a failed method: zero
// score, error recorded, still present in the report.
func (e *Engine) errorResult(d detector, err error) models.MethodResult {
	return models.MethodResult{
		MethodName:  d.Name(),
		Description: d.Description(),
		Error:       err.Error(),
	}
}

func (e *Engine) stamp(report *models.AnalysisReport, start time.Time) {
	report.ID = uuid.NewString()
	report.Timestamp = start
	report.ProcessingTimeSec = time.Since(start).Seconds()
}

func imageInfo(buf *imaging.PixelBuffer) models.ImageInfo {
	return models.ImageInfo{
		Width:    buf.Width,
		Height:   buf.Height,
		Channels: imaging.Channels,
	}
}
