package auth

import "lawvriksh-blog/backend/internal/model"

// CanModify reports whether identity owns the resource. Only owners may
// update or delete posts and comments; creation and like toggles need
// authentication only.
func CanModify(identity *model.User, ownerID int64) bool {
	return identity != nil && identity.ID == ownerID
}
