package storage

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
	"strings"

	"ethereal/backend/internal/config"
	"ethereal/backend/internal/models"

	"go.uber.org/zap"
)

// NextTrackingID returns a fresh tracking id such as EN-2024-00123.
// With Redis the suffix is a per-year sequence; without it a random number,
// so callers must still handle duplicate-key conflicts.
func (s *Service) NextTrackingID(ctx context.Context) (string, error) {
	year := s.now().Year()

	if s.Redis != nil {
		key := fmt.Sprintf("tracking:seq:%d", year)
		if err := s.seedTrackingSeq(ctx, key, year); err != nil {
			s.Logger.Warn("could not seed tracking sequence", zap.String("key", key), zap.Error(err))
		}
		seq, err := s.Redis.Incr(ctx, key).Result()
		if err == nil {
			return FormatTrackingID(year, seq), nil
		}
		s.Logger.Warn("tracking sequence unavailable, using random suffix", zap.Error(err))
	}

	limit := big.NewInt(1)
	for i := 0; i < config.TrackingSeqDigits; i++ {
		limit.Mul(limit, big.NewInt(10))
	}
	n, err := rand.Int(rand.Reader, limit)
	if err != nil {
		return "", fmt.Errorf("generate tracking id: %w", err)
	}
	return FormatTrackingID(year, n.Int64()), nil
}

// seedTrackingSeq starts a missing counter at the highest stored suffix for the
// year, so a flushed or newly attached Redis never reissues existing ids.
func (s *Service) seedTrackingSeq(ctx context.Context, key string, year int) error {
	n, err := s.Redis.Exists(ctx, key).Result()
	if err != nil || n > 0 {
		return err
	}

	prefix := fmt.Sprintf("%s-%d-", config.TrackingPrefix, year)
	var ids []string
	err = s.DB.WithContext(ctx).
		Model(&models.Complaint{}).
		Where("tracking_id LIKE ?", prefix+"%").
		Order("length(tracking_id) desc, tracking_id desc").
		Limit(1).
		Pluck("tracking_id", &ids).Error
	if err != nil {
		return Classify(err)
	}

	var highest int64
	if len(ids) > 0 {
		highest, err = strconv.ParseInt(strings.TrimPrefix(ids[0], prefix), 10, 64)
		if err != nil {
			return fmt.Errorf("parse tracking id %q: %w", ids[0], err)
		}
	}
	return s.Redis.SetNX(ctx, key, highest, 0).Err()
}

// FormatTrackingID renders the canonical upper-case tracking id.
func FormatTrackingID(year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%0*d", config.TrackingPrefix, year, config.TrackingSeqDigits, seq)
}
