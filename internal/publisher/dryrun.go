package publisher

import (
	"context"

	"marketing_engine/internal/domain"
)

const (
	DryRunPostID = "dry-run-id"
	DryRunURL    = "https://example.com/dry-run"
)

// DryRun reports success for every request without contacting the platform.
type DryRun struct {
	platform domain.Platform
}

func NewDryRun(platform domain.Platform) *DryRun {
	return &DryRun{platform: platform}
}

func (d *DryRun) Platform() domain.Platform {
	return d.platform
}

func (d *DryRun) Publish(ctx context.Context, req domain.PublishRequest) (*domain.PublishReceipt, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewTransientError(d.platform, 0, err)
	}
	return &domain.PublishReceipt{PlatformPostID: DryRunPostID, PostURL: DryRunURL}, nil
}
