package models

// Owner is the public projection of a User attached to listed blogs.
type Owner struct {
	ID       string `json:"id"`
	UserName string `json:"username"`
	Name     string `json:"name"`
}

// Blog is a submitted link. OwnerID is a weak reference to User.ID and
// may be nil for ownerless (legacy) blogs.
type Blog struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Author  string  `json:"author"`
	URL     string  `json:"url"`
	Likes   int     `json:"likes"`
	OwnerID *string `json:"userId,omitempty"`
	Owner   *Owner  `json:"user,omitempty"`
}

// HasOwner reports whether the blog records an owner.
func (b *Blog) HasOwner() bool {
	return b.OwnerID != nil && *b.OwnerID != ""
}
