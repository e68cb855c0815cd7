package docker

import (
	"fmt"
	"strings"
	"time"

	"github.com/shinji-kodama/assistant-bot/internal/model"
)

// Label keys stored on every image we build. They all share the
// "assistant-bot." prefix so they never collide with labels from base
// images.
const (
	// LabelPrefix is the common prefix for all assistant-bot labels.
	LabelPrefix = "assistant-bot."

	// LabelManagedBy marks images built by this tool; list filters on it.
	// Key: "assistant-bot.managed-by", Value: always ManagedByValue.
	LabelManagedBy = LabelPrefix + "managed-by"

	// LabelVersion is the assistant-bot version that built the image.
	LabelVersion = LabelPrefix + "version"

	// LabelAppHome is the application root baked into the image
	// (the APP_HOME environment variable and working directory).
	LabelAppHome = LabelPrefix + "app-home"

	// LabelBuiltAt is the RFC3339 UTC build timestamp.
	LabelBuiltAt = LabelPrefix + "built-at"
)

// ManagedByValue is the value of LabelManagedBy.
const ManagedByValue = "assistant-bot"

// BuildLabels returns the labels for an image built from meta.
func BuildLabels(meta model.ImageInfo) map[string]string {
	return map[string]string{
		LabelManagedBy: ManagedByValue,
		LabelVersion:   meta.Version,
		LabelAppHome:   meta.AppHome,
		LabelBuiltAt:   meta.BuiltAt.UTC().Format(time.RFC3339),
	}
}

// ParseLabels reads image metadata back from labels. All keys written by
// BuildLabels are required; every missing key is named in the error.
func ParseLabels(labels map[string]string) (*model.ImageInfo, error) {
	required := []string{LabelManagedBy, LabelVersion, LabelAppHome, LabelBuiltAt}

	var missing []string
	for _, k := range required {
		if _, ok := labels[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required labels: %s", strings.Join(missing, ", "))
	}

	if labels[LabelManagedBy] != ManagedByValue {
		return nil, fmt.Errorf("label %s has unexpected value %q", LabelManagedBy, labels[LabelManagedBy])
	}

	builtAt, err := time.Parse(time.RFC3339, labels[LabelBuiltAt])
	if err != nil {
		return nil, fmt.Errorf("invalid %s label %q: %w", LabelBuiltAt, labels[LabelBuiltAt], err)
	}

	return &model.ImageInfo{
		Version: labels[LabelVersion],
		AppHome: labels[LabelAppHome],
		BuiltAt: builtAt,
	}, nil
}

// FilterLabels returns the label filter selecting our images.
func FilterLabels() map[string]string {
	return map[string]string{LabelManagedBy: ManagedByValue}
}
