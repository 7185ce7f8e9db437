package domain

// ThumbnailTraining is one labelled thumbnail in the training gallery.
type ThumbnailTraining struct {
	VideoID     string `json:"videoId"`
	Title       string `json:"title"`
	StyleBucket string `json:"styleBucket"`
	ImageURL    string `json:"thumbnail_s3_url"`
	Caption     string `json:"caption"`
}

// ThumbnailsPage is the gallery's offset-based list envelope; unlike the
// admin CRUD endpoints it pages by offset, not page number.
type ThumbnailsPage struct {
	Items  []ThumbnailTraining `json:"items"`
	Offset int                 `json:"offset"`
	Limit  int                 `json:"limit"`
	Total  int                 `json:"total"`
}
