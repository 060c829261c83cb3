package dto

type UpdateProfileInput struct {
	FullName *string `form:"fullName"`
	Bio      *string `form:"bio"`
}

type SearchResult struct {
	ID             string  `json:"id"`
	Username       string  `json:"username"`
	FullName       string  `json:"fullName"`
	ProfilePicture *string `json:"profilePicture"`
	Followers      int     `json:"followers"`
	IsFollowing    bool    `json:"isFollowing"`
}

type FollowResponse struct {
	Message     string `json:"message"`
	IsFollowing bool   `json:"isFollowing"`
}
