// Package license validates license keys of the form MKEN-TIER-RANDOM-CHECKSUM and gates features by tier.
package license

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"marketing_engine/internal/domain"
)

const (
	EnvKey      = "MKEN_LICENSE"
	keySalt     = "marketing-engine-v1"
	keyPrefix   = "MKEN"
	checksumLen = 4
)

type Tier string

const (
	TierFree Tier = "FREE"
	TierPro  Tier = "PRO"
)

const (
	FeatureGenerate      = "generate"
	FeatureReview        = "review"
	FeatureExport        = "export"
	FeatureStatus        = "status"
	FeatureInit          = "init"
	FeatureQueue         = "queue"
	FeatureHistory       = "history"
	FeaturePublish       = "publish"
	FeatureAnalytics     = "analytics"
	FeatureMultiWeek     = "multi_week"
	FeatureCustomStreams = "custom_streams"
)

var freeFeatures = []string{
	FeatureGenerate, FeatureReview, FeatureExport, FeatureStatus,
	FeatureInit, FeatureQueue, FeatureHistory,
}

var proFeatures = []string{
	FeaturePublish, FeatureAnalytics, FeatureMultiWeek, FeatureCustomStreams,
}

var tiers = map[Tier]map[string]bool{
	TierFree: set(freeFeatures),
	TierPro:  set(append(append([]string{}, freeFeatures...), proFeatures...)),
}

func set(features []string) map[string]bool {
	m := make(map[string]bool, len(features))
	for _, f := range features {
		m[f] = true
	}
	return m
}

// AllFeatures lists every known feature, free ones first.
func AllFeatures() []string {
	return append(append([]string{}, freeFeatures...), proFeatures...)
}

func checksum(body string) string {
	mac := hmac.New(sha256.New, []byte(keySalt))
	mac.Write([]byte(body))
	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil))[:checksumLen])
}

// Generate creates a key for tier with a random segment.
func Generate(tier Tier) (string, error) {
	tier = Tier(strings.ToUpper(string(tier)))
	if _, ok := tiers[tier]; !ok {
		return "", fmt.Errorf("unknown tier %q", tier)
	}

	buf := make([]byte, 4)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("random segment: %w", err)
	}
	body := fmt.Sprintf("%s-%s-%s", keyPrefix, tier, strings.ToUpper(hex.EncodeToString(buf)))
	return body + "-" + checksum(body), nil
}

// Validate reports the tier a key unlocks. Invalid keys yield TierFree and false.
func Validate(key string) (Tier, bool) {
	parts := strings.Split(strings.TrimSpace(key), "-")
	if len(parts) != 4 || parts[0] != keyPrefix {
		return TierFree, false
	}

	tier := Tier(strings.ToUpper(parts[1]))
	if _, ok := tiers[tier]; !ok {
		return TierFree, false
	}

	expected := checksum(fmt.Sprintf("%s-%s-%s", keyPrefix, tier, parts[2]))
	if !hmac.Equal([]byte(strings.ToUpper(parts[3])), []byte(expected)) {
		return TierFree, false
	}
	return tier, true
}

type License struct {
	Key    string
	Tier   Tier
	Source string
}

// DefaultLocations are the license files consulted after the environment.
func DefaultLocations() []string {
	locations := []string{".marketing-engine-license"}
	if home, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(home, ".config", "marketing-engine", "license"))
	}
	return locations
}

// Load returns the first valid key from MKEN_LICENSE or the given files. Without one the tier is FREE.
func Load(locations []string) License {
	if key := strings.TrimSpace(os.Getenv(EnvKey)); key != "" {
		if tier, ok := Validate(key); ok {
			return License{Key: key, Tier: tier, Source: EnvKey}
		}
	}

	for _, path := range locations {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		key := strings.TrimSpace(string(data))
		if key == "" {
			continue
		}
		if tier, ok := Validate(key); ok {
			return License{Key: key, Tier: tier, Source: path}
		}
	}

	return License{Tier: TierFree}
}

func (l License) Allows(feature string) bool {
	allowed, ok := tiers[l.Tier]
	if !ok {
		allowed = tiers[TierFree]
	}
	return allowed[feature]
}

// Require returns a *domain.LicenseGateError when feature is not part of the tier.
func (l License) Require(feature string) error {
	if l.Allows(feature) {
		return nil
	}
	return &domain.LicenseGateError{Feature: feature, Tier: string(l.tierOrFree())}
}

func (l License) tierOrFree() Tier {
	if l.Tier == "" {
		return TierFree
	}
	return l.Tier
}

// Features returns the allowed features in a stable order.
func (l License) Features() []string {
	var out []string
	for _, f := range AllFeatures() {
		if l.Allows(f) {
			out = append(out, f)
		}
	}
	sort.Strings(out)
	return out
}

// MaskedKey keeps the prefix and tier and hides the rest.
func (l License) MaskedKey() string {
	if l.Key == "" {
		return "(none)"
	}
	parts := strings.Split(l.Key, "-")
	if len(parts) != 4 {
		return "****"
	}
	return fmt.Sprintf("%s-%s-****-****", parts[0], parts[1])
}
