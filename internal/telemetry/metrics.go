package telemetry

import (
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all the metric instruments for the site
type Metrics struct {
	// HTTP metrics
	HTTPRequestsTotal   metric.Int64Counter
	HTTPRequestDuration metric.Float64Histogram
	HTTPActiveRequests  metric.Int64UpDownCounter
	// content specific
	PostSavesTotal      metric.Int64Counter
	PostDeletesTotal    metric.Int64Counter
	PostTogglesTotal    metric.Int64Counter
	ImageUploadsTotal   metric.Int64Counter
	InquiriesTotal      metric.Int64Counter
	InquiryDeletesTotal metric.Int64Counter
	// limiter
	RateLimitHitsTotal metric.Int64Counter
	// middlewares
	AuthWorkDuration metric.Float64Histogram
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	httpRequestsTotal, err := meter.Int64Counter(
		"http_requests",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_requests: %w", err)
	}

	httpRequestDuration, err := meter.Float64Histogram(
		"http_request_duration",
		metric.WithDescription("HTTP request latency in ms"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_request_duration: %w", err)
	}

	httpActiveRequests, err := meter.Int64UpDownCounter(
		"http_active_requests",
		metric.WithDescription("Number of in-flight requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create http_active_requests: %w", err)
	}

	postSavesTotal, err := meter.Int64Counter(
		"post_saves",
		metric.WithDescription("Total number of post create/update saves"),
		metric.WithUnit("{save}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create post_saves: %w", err)
	}

	postDeletesTotal, err := meter.Int64Counter(
		"post_deletes",
		metric.WithDescription("Total number of posts deleted"),
		metric.WithUnit("{post}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create post_deletes: %w", err)
	}

	postTogglesTotal, err := meter.Int64Counter(
		"post_publish_toggles",
		metric.WithDescription("Total number of publish state toggles"),
		metric.WithUnit("{toggle}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create post_publish_toggles: %w", err)
	}

	imageUploadsTotal, err := meter.Int64Counter(
		"image_uploads",
		metric.WithDescription("Total number of cover images uploaded"),
		metric.WithUnit("{upload}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create image_uploads: %w", err)
	}

	inquiriesTotal, err := meter.Int64Counter(
		"inquiries_received",
		metric.WithDescription("Total number of contact inquiries received"),
		metric.WithUnit("{inquiry}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create inquiries_received: %w", err)
	}

	inquiryDeletesTotal, err := meter.Int64Counter(
		"inquiry_deletes",
		metric.WithDescription("Total number of contact inquiries deleted"),
		metric.WithUnit("{inquiry}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create inquiry_deletes: %w", err)
	}

	rateLimitHitsTotal, err := meter.Int64Counter(
		"rate_limit_hits",
		metric.WithDescription("Number of rate limiter blocked requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate_limit_hits: %w", err)
	}

	authWorkDuration, err := meter.Float64Histogram(
		"auth_work_duration",
		metric.WithDescription("real time spent on DB/Bcrypt"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create auth_work_duration: %w", err)
	}

	return &Metrics{
		HTTPRequestsTotal:   httpRequestsTotal,
		HTTPRequestDuration: httpRequestDuration,
		HTTPActiveRequests:  httpActiveRequests,
		PostSavesTotal:      postSavesTotal,
		PostDeletesTotal:    postDeletesTotal,
		PostTogglesTotal:    postTogglesTotal,
		ImageUploadsTotal:   imageUploadsTotal,
		InquiriesTotal:      inquiriesTotal,
		InquiryDeletesTotal: inquiryDeletesTotal,
		RateLimitHitsTotal:  rateLimitHitsTotal,
		AuthWorkDuration:    authWorkDuration,
	}, nil
}
