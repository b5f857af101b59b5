package analysis

const (
	emptyInsight        = "Start logging songs with your moods to unlock personalized insights."
	emptyRecommendation = "Pick a mood and save a song to begin building your history."

	exploreRecommendation    = "Try exploring different moods to broaden your musical horizons!"
	transitionRecommendation = "When intense feelings show up, try easing through some calm music first."
)

var (
	positiveMoods = map[string]bool{"happy": true, "calm": true, "energetic": true, "focused": true, "romantic": true}
	negativeMoods = map[string]bool{"sad": true, "angry": true}
	intenseMoods  = map[string]bool{"angry": true, "sad": true}
)

// moodInsights are keyed by lowercase mood; "" is the fallback.
var moodInsights = map[string][]string{
	"happy": {
		"You've been in a great mood lately! Upbeat music seems to resonate with you.",
		"Positive moods often pair with high-energy, feel-good tracks.",
	},
	"sad": {
		"You've been going through some heavier moments recently.",
		"Music can be a powerful companion for processing emotions.",
	},
	"calm": {
		"You gravitate toward peaceful, relaxing music.",
		"Calm moods suggest you value balance and tranquility.",
	},
	"energetic": {
		"You're full of energy! High-tempo tracks fuel your days.",
	},
	"angry": {
		"You've been channeling some intense feelings.",
		"Powerful music can be a healthy outlet for frustration.",
	},
	"focused": {
		"You often use music to get into the zone.",
		"Focus-friendly tracks help you stay productive.",
	},
	"romantic": {
		"Love is in the air! You're drawn to heartfelt songs.",
	},
	"": {
		"Your music reflects a unique emotional landscape.",
	},
}

// moodRecommendations are keyed by lowercase mood; "" is the fallback.
var moodRecommendations = map[string][]string{
	"happy": {
		"Try energetic playlists to amplify your good mood.",
		"Share your favorite upbeat tracks with friends.",
	},
	"sad": {
		"Try calm or gently uplifting music to lift your spirits.",
		"Consider writing a note alongside the songs that move you.",
		"Reach out to someone you trust if the feeling lingers.",
	},
	"calm": {
		"Explore ambient and acoustic genres to deepen relaxation.",
		"Use calm music for meditation or winding down at night.",
	},
	"energetic": {
		"Channel this energy into a workout playlist.",
		"Try focused music when you need to settle down and concentrate.",
	},
	"angry": {
		"Try calming music to help release tension.",
		"Physical activity paired with energetic music can help process anger.",
	},
	"focused": {
		"Classical and lo-fi tracks can extend your focus sessions.",
		"Take short music breaks to avoid burnout.",
	},
	"romantic": {
		"Explore R&B and soul for more heartfelt tracks.",
		"Build a playlist for someone special.",
	},
	"": {
		"Keep exploring different moods to discover new music.",
		"Log more songs to get more personalized recommendations.",
	},
}
