package domain

// DigestPayload is the composed digest served to clients.
type DigestPayload struct {
	Summary    DigestSummary `json:"summary"`
	TopStories []TopStory    `json:"topStories"`
	Content    DigestContent `json:"content"`
	Timestamp  string        `json:"timestamp"`
	Badge      string        `json:"badge"`
}

// DigestSummary holds the headline bullets and aggregate metrics.
type DigestSummary struct {
	KeyPoints []string      `json:"keyPoints"`
	Metrics   DigestMetrics `json:"metrics"`
}

// DigestMetrics are the aggregate counts shown at the top of the digest.
type DigestMetrics struct {
	TotalUpdates  int `json:"totalUpdates"`
	HighImpact    int `json:"highImpact"`
	NewResearch   int `json:"newResearch"`
	IndustryMoves int `json:"industryMoves"`
}

// TopStory is one entry of the global top-N ranking across all buckets.
type TopStory struct {
	Title             string  `json:"title"`
	Source            string  `json:"source"`
	SignificanceScore float64 `json:"significanceScore"`
	URL               string  `json:"url"`
}

// DigestContent partitions the selected items by content type.
type DigestContent struct {
	Blog  []ContentItemView `json:"blog"`
	Audio []ContentItemView `json:"audio"`
	Video []ContentItemView `json:"video"`
}

// ContentItemView is the client-facing projection of a ContentItem.
type ContentItemView struct {
	Title             string  `json:"title"`
	Description       string  `json:"description"`
	Source            string  `json:"source"`
	Time              string  `json:"time"`
	Impact            string  `json:"impact"`
	Type              string  `json:"type"`
	URL               string  `json:"url"`
	SignificanceScore float64 `json:"significanceScore"`

	AudioURL     string `json:"audio_url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Duration     string `json:"duration,omitempty"`
}
