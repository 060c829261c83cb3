package dto

type RegisterInput struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,min=3,max=30"`
	FullName string `json:"fullName" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserResponse is the profile summary returned by the auth and profile routes.
// Followers/following/posts are counts, not id lists.
type UserResponse struct {
	ID             string  `json:"id"`
	Email          string  `json:"email"`
	Username       string  `json:"username"`
	FullName       string  `json:"fullName"`
	ProfilePicture *string `json:"profilePicture"`
	Bio            string  `json:"bio"`
	Followers      int     `json:"followers"`
	Following      int     `json:"following"`
	Posts          int64   `json:"posts"`
}

type AuthResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user"`
}
