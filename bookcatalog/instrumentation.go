package bookcatalog

import (
	"context"
	"math"
	"time"
)

const (
	operationCreate = "create"
	operationGet    = "get"
	operationUpdate = "update"
	operationDelete = "delete"
	operationFilter = "filter"

	spanNamePrefix = "bookcatalog."

	spanAttrOperation   = "operation"
	spanAttrBookID      = "book_id"
	spanAttrErrorType   = "error_type"
	spanAttrResultCount = "result_count"
	spanAttrTotalCount  = "total_count"
	spanAttrDurationMS  = "duration_ms"

	statusSuccess = "success"
	statusError   = "error"

	metricOperationDuration  = "bookcatalog_operation_duration_seconds"
	metricOperationErrors    = "bookcatalog_operation_errors_total"
	metricBooksReturned      = "bookcatalog_books_returned"
	metricValidationFailures = "bookcatalog_validation_failures_total"

	logMsgOperation = "bookcatalog: "

	logAttrError      = "error"
	logAttrBookID     = "book_id"
	logAttrDurationMS = "duration_ms"
	logAttrCount      = "count"

	errorTypeValidation = "validation"
	errorTypeNotFound   = "not_found"
	errorTypeTimeout    = "timeout"
	errorTypeStorage    = "storage"
)

// logOperation logs operational information at info level if a logger is configured.
func (cs *CatalogStore) logOperation(ctx context.Context, action string, args ...any) {
	if cs.contextualLogger != nil {
		cs.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
		return
	}

	if cs.logger != nil {
		cs.logger.Info(logMsgOperation+action, args...)
	}
}

// logError logs error information at the error level if a logger is configured.
func (cs *CatalogStore) logError(ctx context.Context, message string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if cs.contextualLogger != nil {
		cs.contextualLogger.ErrorContext(ctx, logMsgOperation+message, allArgs...)
		return
	}

	if cs.logger != nil {
		cs.logger.Error(logMsgOperation+message, allArgs...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func (cs *CatalogStore) toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// recordDurationMetrics records operation duration if a collector is configured,
// preferring the context-aware method when the collector supports it.
func (cs *CatalogStore) recordDurationMetrics(
	ctx context.Context,
	duration time.Duration,
	operation, status string,
) {
	if cs.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		"status":          status,
	}

	if contextualCollector, ok := cs.metricsCollector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metricOperationDuration, duration, labels)
	} else {
		cs.metricsCollector.RecordDuration(metricOperationDuration, duration, labels)
	}
}

// recordErrorMetrics records an error counter if a collector is configured.
func (cs *CatalogStore) recordErrorMetrics(ctx context.Context, operation, errorType string) {
	if cs.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operation,
		"status":          statusError,
		spanAttrErrorType: errorType,
	}

	metric := metricOperationErrors
	if errorType == errorTypeValidation {
		metric = metricValidationFailures
	}

	if contextualCollector, ok := cs.metricsCollector.(ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metric, labels)
	} else {
		cs.metricsCollector.IncrementCounter(metric, labels)
	}
}

// recordResultCountMetrics records the page size of a filter result if a collector is configured.
func (cs *CatalogStore) recordResultCountMetrics(ctx context.Context, count int) {
	if cs.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operationFilter,
		"status":          statusSuccess,
	}

	if contextualCollector, ok := cs.metricsCollector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, metricBooksReturned, float64(count), labels)
	} else {
		cs.metricsCollector.RecordValue(metricBooksReturned, float64(count), labels)
	}
}

// startSpan starts a tracing span if the tracing collector is configured.
func (cs *CatalogStore) startSpan(ctx context.Context, operation string) (context.Context, SpanContext) {
	if cs.tracingCollector == nil {
		return ctx, nil
	}

	attrs := map[string]string{spanAttrOperation: operation}

	return cs.tracingCollector.StartSpan(ctx, spanNamePrefix+operation, attrs)
}

// finishSpanSuccess finishes a span for a successful operation.
func (cs *CatalogStore) finishSpanSuccess(span SpanContext, attrs map[string]string) {
	if cs.tracingCollector == nil || span == nil {
		return
	}

	span.SetStatus(statusSuccess)
	for key, value := range attrs {
		span.AddAttribute(key, value)
	}

	cs.tracingCollector.FinishSpan(span, statusSuccess, attrs)
}

// finishSpanError finishes a span with error details.
func (cs *CatalogStore) finishSpanError(span SpanContext, errorType string) {
	if cs.tracingCollector == nil || span == nil {
		return
	}

	span.SetStatus(statusError)
	span.AddAttribute(spanAttrErrorType, errorType)

	cs.tracingCollector.FinishSpan(span, statusError, map[string]string{spanAttrErrorType: errorType})
}

// errorTypeOf maps a domain error to its metric/span error type label.
func errorTypeOf(err error) string {
	domainErr, ok := AsDomainError(err)
	if !ok {
		return errorTypeStorage
	}

	switch domainErr.Code {
	case ErrorCodeValidation:
		return errorTypeValidation
	case ErrorCodeNotFound:
		return errorTypeNotFound
	case ErrorCodeTimeout:
		return errorTypeTimeout
	default:
		return errorTypeStorage
	}
}
