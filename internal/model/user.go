package model

type UserCreate struct {
	FullName    string
	Email       string
	PhoneNumber string
	Photo       string
}

// User is a member of the parish using the tracker.
type User struct {
	ID int64
	UserCreate
}

type UserSearchFilter struct {
	Query string
	// ExcludeIDs keeps the searching user and people already known out of the results.
	ExcludeIDs []int64
	Limit      int
	Page       int
}
