package domain

import "time"

type UserID string

type UserRole string

const (
	RoleSuperadmin UserRole = "SUPERADMIN"
	RoleAdmin      UserRole = "ADMIN"
	RoleUser       UserRole = "USER"
)

type OAuthProvider string

const (
	ProviderLocal   OAuthProvider = "local"
	ProviderGoogle  OAuthProvider = "google"
	ProviderApple   OAuthProvider = "apple"
	ProviderDiscord OAuthProvider = "discord"
)

type Plan struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type User struct {
	ID         UserID        `json:"id"`
	Name       string        `json:"name"`
	Email      string        `json:"email"`
	Roles      []UserRole    `json:"roles"`
	Provider   OAuthProvider `json:"provider"`
	ProviderID string        `json:"providerId,omitempty"`

	IsActive        bool       `json:"isActive"`
	EmailVerifiedAt *time.Time `json:"emailVerifiedAt"`
	LastLoginAt     *time.Time `json:"lastLoginAt"`

	SubscriptionCredits int `json:"subscriptionCredits"`
	PurchasedCredits    int `json:"purchasedCredits"`

	AvatarURL        string `json:"avatarUrl,omitempty"`
	StripeCustomerID string `json:"stripeCustomerId,omitempty"`

	CurrentPlan *Plan  `json:"currentPlan,omitempty"`
	Notes       string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Pagination is the list envelope every admin collection endpoint returns.
type Pagination[T any] struct {
	Items []T `json:"items"`
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

type UserStatusFilter string

const (
	UserStatusActive   UserStatusFilter = "active"
	UserStatusInactive UserStatusFilter = "inactive"
	UserStatusInvited  UserStatusFilter = "invited"
)

type ListUsersParams struct {
	Page   int
	Limit  int
	Query  string
	Role   UserRole
	Status UserStatusFilter
}
