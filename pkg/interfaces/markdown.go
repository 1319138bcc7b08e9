package interfaces

// CommentRenderer converts Markdown comment bodies into HTML for request timelines.
type CommentRenderer interface {
	RenderString(markdown string) (string, error)
}
