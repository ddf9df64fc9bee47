package config

import "github.com/traceprint/traceprint/internal/model"

// DefaultPlatforms returns the built-in platform catalog.
//
// The catalog covers the major social, professional, developer, creative,
// and entertainment platforms. Each descriptor carries everything the
// probe engine and scorers need: the profile URL template, the
// classification policy, the not-found fingerprint phrases, and the risk
// weight and sensitivity used by the ensemble scorer.
//
// Design decision: The catalog is data, not code. A config file can
// override any descriptor by name or append new ones, so covering a new
// platform never requires a rebuild. Platforms where the HTTP status code
// alone is reliable use PolicyStatusOnly; platforms that return 200 for
// missing profiles use PolicyFingerprint with lowercase phrases matched
// against the response body.
func DefaultPlatforms() []model.PlatformDescriptor {
	return []model.PlatformDescriptor{
		{
			Name:        "github",
			URLTemplate: "https://github.com/%s",
			Policy:      model.PolicyStatusOnly,
			Category:    model.CategoryDeveloper,
			RiskWeight:  0.6,
			Sensitivity: 0.70,
		},
		{
			Name:        "twitter",
			URLTemplate: "https://x.com/%s",
			Policy:      model.PolicyFingerprint,
			Category:    model.CategorySocialMedia,
			NotFoundPhrases: []string{
				"this account doesn't exist",
				"account suspended",
				"we couldn't find that account",
			},
			RiskWeight:  0.7,
			Sensitivity: 0.75,
		},
		{
			Name:        "linkedin",
			URLTemplate: "https://www.linkedin.com/in/%s",
			Policy:      model.PolicyStatusOnly,
			Category:    model.CategoryProfessional,
			RiskWeight:  0.8,
			Sensitivity: 0.90,
		},
		{
			Name:        "instagram",
			URLTemplate: "https://www.instagram.com/%s/",
			Policy:      model.PolicyStatusOnly,
			Category:    model.CategorySocialMedia,
			RiskWeight:  0.6,
			Sensitivity: 0.80,
		},
		{
			Name:        "facebook",
			URLTemplate: "https://www.facebook.com/%s",
			Policy:      model.PolicyStatusOnly,
			Category:    model.CategorySocialMedia,
			RiskWeight:  0.85,
			Sensitivity: 0.95,
		},
		{
			Name:        "reddit",
			URLTemplate: "https://www.reddit.com/user/%s",
			Policy:      model.PolicyFingerprint,
			Category:    model.CategorySocialMedia,
			NotFoundPhrases: []string{
				"nobody on reddit goes by that name",
				"sorry, nobody on reddit goes by that name",
			},
			RiskWeight:  0.5,
			Sensitivity: 0.60,
		},
		{
			Name:        "medium",
			URLTemplate: "https://medium.com/@%s",
			Policy:      model.PolicyFingerprint,
			Category:    model.CategoryCreative,
			NotFoundPhrases: []string{
				"whoops",
				"this page doesn't exist",
			},
			RiskWeight:  0.4,
			Sensitivity: 0.50,
		},
		{
			Name:        "stackoverflow",
			URLTemplate: "https://stackoverflow.com/users/%s",
			Policy:      model.PolicyFingerprint,
			Category:    model.CategoryDeveloper,
			NotFoundPhrases: []string{
				"user does not exist",
			},
			RiskWeight:  0.6,
			Sensitivity: 0.55,
		},
		{
			Name:        "devto",
			URLTemplate: "https://dev.to/%s",
			Policy:      model.PolicyFingerprint,
			Category:    model.CategoryDeveloper,
			NotFoundPhrases: []string{
				"the page you were looking for doesn't exist",
			},
			RiskWeight:  0.4,
			Sensitivity: 0.50,
		},
		{
			Name:        "pinterest",
			URLTemplate: "https://www.pinterest.com/%s",
			Policy:      model.PolicyFingerprint,
			Category:    model.CategoryCreative,
			NotFoundPhrases: []string{
				"sorry! we couldn't find that page",
			},
			RiskWeight:  0.4,
			Sensitivity: 0.50,
		},
		{
			Name:        "youtube",
			URLTemplate: "https://www.youtube.com/@%s",
			Policy:      model.PolicyFingerprint,
			Category:    model.CategoryEntertainment,
			NotFoundPhrases: []string{
				"this channel doesn't exist",
				"sorry, we can't find that page",
				"404",
			},
			RiskWeight:  0.5,
			Sensitivity: 0.65,
		},
		{
			Name:        "tiktok",
			URLTemplate: "https://www.tiktok.com/@%s",
			Policy:      model.PolicyFingerprint,
			Category:    model.CategorySocialMedia,
			NotFoundPhrases: []string{
				"couldn't find this account",
				"user not found",
			},
			RiskWeight:  0.65,
			Sensitivity: 0.75,
		},
		{
			Name:        "twitch",
			URLTemplate: "https://www.twitch.tv/%s",
			Policy:      model.PolicyFingerprint,
			Category:    model.CategoryEntertainment,
			NotFoundPhrases: []string{
				"channel does not exist",
				"sorry. unless you've got a time machine",
			},
			RiskWeight:  0.55,
			Sensitivity: 0.55,
		},
		{
			Name:        "imgur",
			URLTemplate: "https://imgur.com/user/%s",
			Policy:      model.PolicyFingerprint,
			Category:    model.CategoryCreative,
			NotFoundPhrases: []string{
				"oops we couldn't find that page",
			},
			RiskWeight:  0.45,
			Sensitivity: 0.40,
		},
		{
			Name:        "spotify",
			URLTemplate: "https://open.spotify.com/user/%s",
			Policy:      model.PolicyFingerprint,
			Category:    model.CategoryEntertainment,
			NotFoundPhrases: []string{
				"couldn't find that user",
			},
			RiskWeight:  0.35,
			Sensitivity: 0.45,
		},
	}
}
