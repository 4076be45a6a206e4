package xsoar

import (
	"context"
	"errors"
	"fmt"

	"github.com/packsync/packsync/domain/artifact"
	"github.com/packsync/packsync/domain/pack"
	"github.com/packsync/packsync/infrastructure/logging"
)

// upstreamAuthor labels report entries for packs versioned by the platform.
const upstreamAuthor = "Upstream"

// OutdatedPacks computes the outdated-pack report from the installed-expired
// snapshot. Custom-authored packs are compared against the artifact store's
// latest version; everything else trusts the platform's own update
// bookkeeping and changelog. The two pack families are versioned by
// different authorities and must not be conflated.
func (c *Client) OutdatedPacks(ctx context.Context) ([]pack.Outdated, error) {
	expired, err := c.InstalledExpiredPacks(ctx)
	if err != nil {
		return nil, err
	}

	report := make([]pack.Outdated, 0)
	for _, p := range expired {
		if _, ok := c.customAuthors[p.Author]; ok {
			entry, skip, err := c.reconcileCustom(ctx, p)
			if err != nil {
				return nil, err
			}
			if !skip {
				report = append(report, entry)
			}
			continue
		}

		if !p.UpdateAvailable {
			continue
		}
		latest, err := pack.MaxByVersion(p.Changelog)
		if err != nil {
			return nil, fmt.Errorf("pack %s changelog: %w", p.ID, err)
		}
		report = append(report, pack.Outdated{
			ID:             p.ID,
			CurrentVersion: p.CurrentVersion,
			Latest:         latest,
			Author:         upstreamAuthor,
		})
	}
	return report, nil
}

// reconcileCustom resolves one custom-authored record against the artifact
// store. A store holding no versions for the pack is a diagnostic, not an
// outdated entry.
func (c *Client) reconcileCustom(ctx context.Context, p pack.Installed) (pack.Outdated, bool, error) {
	if c.provider == nil {
		return pack.Outdated{}, true, ErrNoProvider
	}

	latest, err := c.provider.LatestVersion(ctx, p.ID)
	if err != nil {
		if errors.Is(err, artifact.ErrNoVersions) {
			logging.Warn().
				Add(logging.PackID(p.ID)).
				Add(logging.Author(p.Author)).
				Msg("no versions in artifact store, skipping")
			return pack.Outdated{}, true, nil
		}
		return pack.Outdated{}, true, err
	}

	if latest == p.CurrentVersion {
		return pack.Outdated{}, true, nil
	}
	return pack.Outdated{
		ID:             p.ID,
		CurrentVersion: p.CurrentVersion,
		Latest:         latest,
		Author:         p.Author,
	}, false, nil
}
