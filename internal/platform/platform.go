// Package platform holds the static catalog of supported social networks.
// The set is a closed enumeration; there is no dynamic registration.
package platform

import (
	"fmt"
	"sort"
)

// Platform identifies one target social network.
type Platform string

const (
	Facebook  Platform = "facebook"
	Instagram Platform = "instagram"
	Twitter   Platform = "twitter"
	Threads   Platform = "threads"
	TikTok    Platform = "tiktok"
	LinkedIn  Platform = "linkedin"
	Slack     Platform = "slack"
	Email     Platform = "email"
	Messages  Platform = "messages"
	Teams     Platform = "teams"
	Discord   Platform = "discord"
	WhatsApp  Platform = "whatsapp"
)

// Info describes one catalog entry. Cosmetic fields (color, description) are
// carried for clients; the caption pipeline only reads the style fields.
type Info struct {
	DisplayName     string
	PrimaryColor    string // hex, cosmetic
	CharacterLimit  int
	HashtagCount    int
	Tone            string
	Instructions    string
	URLScheme       string
	WebURL          string
	Description     string
}

var catalog = map[Platform]Info{
	Facebook: {
		DisplayName:    "Facebook",
		PrimaryColor:   "#3B5999",
		CharacterLimit: 63206,
		HashtagCount:   3,
		Tone:           "casual, engaging, and personal",
		Instructions: "Create engaging content that encourages comments and shares. " +
			"Use a conversational tone and include a call-to-action.",
		URLScheme:   "fb://publish/text",
		WebURL:      "https://www.facebook.com",
		Description: "Personal & engaging posts",
	},
	Instagram: {
		DisplayName:    "Instagram",
		PrimaryColor:   "#D44F8C",
		CharacterLimit: 2200,
		HashtagCount:   15,
		Tone:           "visual storytelling with emojis",
		Instructions: "Focus on visual storytelling. Include relevant emojis and trending hashtags. " +
			"Make it Instagram-aesthetic friendly.",
		URLScheme:   "instagram://camera",
		WebURL:      "https://www.instagram.com",
		Description: "Visual stories & hashtags",
	},
	Twitter: {
		DisplayName:    "Twitter/X",
		PrimaryColor:   "#1CA1F2",
		CharacterLimit: 280,
		HashtagCount:   2,
		Tone:           "concise, witty, and impactful",
		Instructions: "Keep it under 280 characters. Be concise but impactful. " +
			"Use Twitter-style language and relevant hashtags.",
		URLScheme:   "twitter://post",
		WebURL:      "https://twitter.com/compose/tweet",
		Description: "Quick & impactful tweets",
	},
	Threads: {
		DisplayName:    "Threads",
		PrimaryColor:   "#000000",
		CharacterLimit: 500,
		HashtagCount:   5,
		Tone:           "conversational and interactive",
		Instructions: "Create conversational content that encourages replies. " +
			"End with questions or discussion starters.",
		URLScheme:   "threads://compose",
		WebURL:      "https://www.threads.net",
		Description: "Conversational content",
	},
	TikTok: {
		DisplayName:    "TikTok",
		PrimaryColor:   "#FF0A4A",
		CharacterLimit: 2200,
		HashtagCount:   10,
		Tone:           "trendy, energetic with Gen Z language",
		Instructions: "Use trending slang, viral hashtags, and energetic language. " +
			"Include call-to-actions like 'like if you agree' or 'share this with friends'.",
		URLScheme:   "tiktok://upload",
		WebURL:      "https://www.tiktok.com/upload",
		Description: "Trendy & viral content",
	},
	LinkedIn: {
		DisplayName:    "LinkedIn",
		PrimaryColor:   "#1C6BAD",
		CharacterLimit: 3000,
		HashtagCount:   3,
		Tone:           "professional and business-focused",
		Instructions: "Maintain professional tone. Include industry keywords and business insights. " +
			"Focus on value and professional growth.",
		URLScheme:   "linkedin://compose",
		WebURL:      "https://www.linkedin.com/feed",
		Description: "Professional networking",
	},
	Slack: {
		DisplayName:    "Slack",
		PrimaryColor:   "#700FBD",
		CharacterLimit: 40000,
		HashtagCount:   0,
		Tone:           "collaborative and team-focused",
		Instructions: "Create clear, actionable team communication. Use @mentions when appropriate. " +
			"Focus on collaboration and getting things done.",
		URLScheme:   "slack://open",
		WebURL:      "https://app.slack.com",
		Description: "Team collaboration",
	},
	Email: {
		DisplayName:    "Email",
		PrimaryColor:   "#007ACC",
		CharacterLimit: 10000,
		HashtagCount:   0,
		Tone:           "professional and clear",
		Instructions: "Structure as professional email with clear subject suggestion. " +
			"Use formal but approachable tone. Include clear call-to-action.",
		URLScheme:   "mailto:",
		WebURL:      "https://mail.google.com/mail/u/0/#inbox?compose=new",
		Description: "Professional communication",
	},
	Messages: {
		DisplayName:    "Messages",
		PrimaryColor:   "#00C740",
		CharacterLimit: 1000,
		HashtagCount:   0,
		Tone:           "casual and friendly",
		Instructions: "Keep it concise and conversational. Use emojis sparingly. " +
			"Write like you're texting a friend.",
		URLScheme:   "sms:",
		WebURL:      "https://messages.apple.com",
		Description: "Text messaging",
	},
	Teams: {
		DisplayName:    "Microsoft Teams",
		PrimaryColor:   "#615CCC",
		CharacterLimit: 4000,
		HashtagCount:   0,
		Tone:           "professional and collaborative",
		Instructions: "Professional team communication. Use @mentions for specific team members. " +
			"Focus on clarity and actionable items.",
		URLScheme:   "msteams://compose",
		WebURL:      "https://teams.microsoft.com",
		Description: "Business communication",
	},
	Discord: {
		DisplayName:    "Discord",
		PrimaryColor:   "#5966FA",
		CharacterLimit: 2000,
		HashtagCount:   0,
		Tone:           "casual gaming and community-focused",
		Instructions: "Use gaming terminology and community language. Include emojis and casual tone. " +
			"Perfect for server announcements or community engagement.",
		URLScheme:   "discord://open",
		WebURL:      "https://discord.com/channels/@me",
		Description: "Gaming & community chat",
	},
	WhatsApp: {
		DisplayName:    "WhatsApp",
		PrimaryColor:   "#26AD61",
		CharacterLimit: 4096,
		HashtagCount:   0,
		Tone:           "casual and personal messaging",
		Instructions: "Keep it personal and conversational. Write like you're messaging family or " +
			"close friends. Use emojis naturally and keep tone warm and friendly.",
		URLScheme:   "whatsapp://send",
		WebURL:      "https://web.whatsapp.com",
		Description: "Personal messaging",
	},
}

// All returns every supported platform in stable (alphabetical) order.
func All() []Platform {
	out := make([]Platform, 0, len(catalog))
	for p := range catalog {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })

	return out
}

// Parse validates a platform identifier. Unknown identifiers are rejected
// here so the rest of the pipeline only ever sees catalog members.
func Parse(id string) (Platform, error) {
	p := Platform(id)
	if _, ok := catalog[p]; !ok {
		return "", fmt.Errorf("unknown platform %q", id)
	}

	return p, nil
}

// Lookup returns the catalog entry for a platform. The lookup is total over
// the closed set accepted by Parse.
func Lookup(p Platform) Info {
	return catalog[p]
}
