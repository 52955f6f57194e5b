package entities

import "time"

// Activity kinds recorded against an article
const (
	ActivityRead   = "READ"
	ActivityCreate = "CREATE"
)

// ActivityEvent captures one user interaction with an article. Events are
// written to the activity log bucket as standalone JSON objects, best-effort.
type ActivityEvent struct {
	UserID      string `json:"user_id"`
	ArticleID   string `json:"article_id"`
	ArticleURL  string `json:"article_url"`
	Activity    string `json:"activity"`
	Comments    string `json:"comments,omitempty"`
	DateCreated string `json:"dateCreated"`
}

// NewActivityEvent builds an event stamped with the current time
func NewActivityEvent(userID, articleID, articleURL, activity string) *ActivityEvent {
	return &ActivityEvent{
		UserID:      userID,
		ArticleID:   articleID,
		ArticleURL:  articleURL,
		Activity:    activity,
		DateCreated: time.Now().Format(DateCreatedLayout),
	}
}
