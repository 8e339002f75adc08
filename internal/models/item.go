package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Item status values.
const (
	StatusLost  = "lost"
	StatusFound = "found"
)

// Item is a single lost-or-found posting stored in MongoDB. The contact
// fields are stored per item rather than resolved through the owning user,
// so a posting keeps the contact info it was created with. ImageKey is the
// gateway object key backing ImageURL and is never sent to clients.
type Item struct {
	ID          primitive.ObjectID `json:"id"                 bson:"_id,omitempty"`
	Title       string             `json:"title"              bson:"title"`
	Description string             `json:"description"        bson:"description"`
	Status      string             `json:"status"             bson:"status"`
	Email       string             `json:"email"              bson:"email"`
	Phone       string             `json:"phone"              bson:"phone"`
	ImageURL    string             `json:"imageURL,omitempty" bson:"image_url,omitempty"`
	ImageKey    string             `json:"-"                  bson:"image_key,omitempty"`
	PostedBy    string             `json:"postedBy"           bson:"posted_by"`
	UniqueLink  string             `json:"uniqueLink"         bson:"unique_link"`
	UID         string             `json:"uid"                bson:"uid"`
	CreatedAt   time.Time          `json:"createdAt"          bson:"created_at"`
}

// ValidStatus reports whether s is one of the allowed item statuses.
func ValidStatus(s string) bool {
	return s == StatusLost || s == StatusFound
}
