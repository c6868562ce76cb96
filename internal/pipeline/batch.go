package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"vin-decoder/internal/vin"
)

const (
	// HardMaxItems caps a batch regardless of what the caller requests.
	HardMaxItems = 50
	// DefaultConcurrency bounds simultaneous in-flight single-VIN pipelines.
	DefaultConcurrency = 5

	formatInvalidMessage = "Formato de VIN inválido"
)

// BatchOutcome aggregates a batch run. The counts always satisfy
// TotalDecoded + TotalFailed == TotalRequested.
type BatchOutcome struct {
	Results        []*Result
	Errors         map[string]string
	TotalRequested int
	TotalDecoded   int
	TotalFailed    int
}

// ProgressFunc observes batch progress. Purely advisory.
type ProgressFunc func(event BatchProgress)

// BatchProgress describes one batch lifecycle event.
type BatchProgress struct {
	Type      string
	JobID     string
	Vin       string
	Error     string
	Processed int
	Total     int
}

type batchItem struct {
	raw    string
	result *Result
	err    error
}

// DecodeBatch fans the VIN list out across the single-VIN pipeline under
// bounded concurrency and fans results back in through a single collector.
// One VIN's failure never aborts the processing of any other VIN.
func (s *Service) DecodeBatch(ctx context.Context, vins []string, maxItems int) *BatchOutcome {
	capped := capItems(vins, maxItems)

	outcome := &BatchOutcome{
		Errors:         make(map[string]string),
		TotalRequested: len(capped),
	}

	jobID := uuid.NewString()
	s.emit(BatchProgress{Type: "started", JobID: jobID, Total: len(capped)})
	logrus.WithFields(logrus.Fields{
		"job":       jobID,
		"requested": len(vins),
		"capped":    len(capped),
		"workers":   s.concurrency,
	}).Info("batch decode started")

	if len(capped) == 0 {
		s.emit(BatchProgress{Type: "complete", JobID: jobID})
		return outcome
	}

	taskCh := make(chan string)
	resultCh := make(chan batchItem)

	var workerWG sync.WaitGroup
	for i := 0; i < s.concurrency; i++ {
		workerWG.Add(1)
		go func() {
			defer workerWG.Done()
			for raw := range taskCh {
				resultCh <- s.decodeBatchItem(ctx, raw)
			}
		}()
	}

	go func() {
		workerWG.Wait()
		close(resultCh)
	}()

	go func() {
		defer close(taskCh)
		for _, raw := range capped {
			taskCh <- raw
		}
	}()

	// single collector owns the aggregate state; workers never touch it
	processed := 0
	for item := range resultCh {
		processed++
		if item.err != nil {
			outcome.Errors[item.raw] = item.err.Error()
			s.emit(BatchProgress{
				Type:      "item",
				JobID:     jobID,
				Vin:       item.raw,
				Error:     item.err.Error(),
				Processed: processed,
				Total:     len(capped),
			})
			continue
		}
		outcome.Results = append(outcome.Results, item.result)
		s.emit(BatchProgress{
			Type:      "item",
			JobID:     jobID,
			Vin:       item.result.Vin.String(),
			Processed: processed,
			Total:     len(capped),
		})
	}

	outcome.TotalDecoded = len(outcome.Results)
	outcome.TotalFailed = len(outcome.Errors)

	s.emit(BatchProgress{Type: "complete", JobID: jobID, Processed: processed, Total: len(capped)})
	logrus.WithFields(logrus.Fields{
		"job":     jobID,
		"decoded": outcome.TotalDecoded,
		"failed":  outcome.TotalFailed,
	}).Info("batch decode finished")

	return outcome
}

// decodeBatchItem runs one VIN through the pipeline, converting panics into
// error-map entries so a single item can never abort the batch.
func (s *Service) decodeBatchItem(ctx context.Context, raw string) (item batchItem) {
	item.raw = raw

	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("vin", raw).Errorf("batch item panicked: %v", r)
			item.result = nil
			item.err = fmt.Errorf("error inesperado: %v", r)
		}
	}()

	normalized := vin.Normalize(raw)
	if !vin.IsWellFormed(normalized) {
		item.err = fmt.Errorf("%s", formatInvalidMessage)
		return item
	}

	result, err := s.DecodeSmart(ctx, normalized)
	if err != nil {
		item.err = err
		return item
	}
	item.result = result
	return item
}

func (s *Service) emit(event BatchProgress) {
	if s.progress != nil {
		s.progress(event)
	}
}

func capItems(vins []string, maxItems int) []string {
	limit := HardMaxItems
	if maxItems > 0 && maxItems < limit {
		limit = maxItems
	}
	if len(vins) <= limit {
		return vins
	}
	return vins[:limit]
}
