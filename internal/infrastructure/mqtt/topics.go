package mqtt

import (
	"strings"
	"unicode"

	"github.com/fwelpo3/Gruppenadressen-V1-I/internal/infrastructure/config"
)

// Topics builds the planner's MQTT topic names.
//
// All topics live under {prefix}/{site}:
//
//	gaplan/site-001/status
//	gaplan/site-001/plans/single-family-house/rows
//	gaplan/site-001/plans/single-family-house/summary
type Topics struct {
	Prefix string
	SiteID string
}

// NewTopics returns the topic builder for a site using the configured prefix.
func NewTopics(cfg config.MQTTConfig, siteID string) Topics {
	return Topics{Prefix: cfg.TopicPrefix, SiteID: siteID}
}

func (t Topics) base() string {
	return t.Prefix + "/" + Slug(t.SiteID)
}

// Status returns the retained online/offline status topic, also used as
// the Last Will topic.
func (t Topics) Status() string {
	return t.base() + "/status"
}

// PlanRows returns the topic carrying the generated rows of a project.
func (t Topics) PlanRows(project string) string {
	return t.base() + "/plans/" + Slug(project) + "/rows"
}

// PlanSummary returns the topic carrying the row counts of a project.
func (t Topics) PlanSummary(project string) string {
	return t.base() + "/plans/" + Slug(project) + "/summary"
}

// AllPlans matches every plan topic of the site.
func (t Topics) AllPlans() string {
	return t.base() + "/plans/#"
}

// Slug turns a free-form name into a single topic level: lower case,
// letters and digits kept, every other run of characters collapsed to one
// hyphen. An empty result becomes "unnamed".
func Slug(name string) string {
	var b strings.Builder
	pendingHyphen := false

	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
			continue
		}
		pendingHyphen = true
	}

	if b.Len() == 0 {
		return "unnamed"
	}
	return b.String()
}
