package apify

import "social-lens-go/pkg/models"

// ActorConfig is the static per-platform run configuration: which actor to
// invoke and the opaque parameter payload it expects.
type ActorConfig struct {
	ActorID       string
	ResultsLimit  int
	SessionCookie string // li_at cookie, LinkedIn only
}

// instagramInput is the input payload of the Instagram profile scraper actor
type instagramInput struct {
	Usernames     []string `json:"usernames"`
	ResultsLimit  int      `json:"resultsLimit"`
	AddParentData bool     `json:"addParentData"`
}

// linkedinInput is the input payload of the LinkedIn profile scraper actor
type linkedinInput struct {
	ProfileURLs []string `json:"profileUrls"`
	Cookie      string   `json:"cookie,omitempty"`
}

// BuildActorInput produces the actor input payload for a platform and a
// normalized handle. The payload shape is actor-specific configuration, not
// business logic.
func (c ActorConfig) BuildActorInput(platform models.Platform, handle string) any {
	switch platform {
	case models.PlatformLinkedIn:
		return linkedinInput{
			ProfileURLs: []string{handle},
			Cookie:      c.SessionCookie,
		}
	default:
		return instagramInput{
			Usernames:    []string{handle},
			ResultsLimit: c.ResultsLimit,
		}
	}
}
