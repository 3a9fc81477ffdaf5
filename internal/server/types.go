package server

import "github.com/ayeeshaliu/radar-nc-api/internal/startups"

// jsonResponse is the uniform envelope for every JSON answer.
type jsonResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

const (
	statusSuccessful = "successful"
	statusError      = "error"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginData struct {
	Token           string `json:"token"`
	TokenExpiresAt  int64  `json:"tokenExpiresAt"`
	UserID          string `json:"userId"`
	IsAdmin         bool   `json:"isAdmin"`
	IsFounder       bool   `json:"isFounder"`
	IsInvestor      bool   `json:"isInvestor"`
	IsCuriousPerson bool   `json:"isCuriousPerson"`
}

type submissionData struct {
	ID string `json:"id"`
}

type startupListData struct {
	Startups []startups.Startup `json:"startups"`
	Total    int                `json:"total"`
}

type adminListData struct {
	Startups []startups.AdminStartup `json:"startups"`
	Total    int                     `json:"total"`
}

type upvoteRequest struct {
	UserID string `json:"userId"`
}

type upvoteData struct {
	Upvoted     bool `json:"upvoted"`
	UpvoteCount int  `json:"upvoteCount"`
}

type trackData struct {
	Success bool `json:"success"`
}

type adminUpdateRequest struct {
	Status     startups.Status `json:"status"`
	AdminNotes string          `json:"adminNotes"`
}
