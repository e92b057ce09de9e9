package request

type UserListRequest struct {
	PaginatedRequest
	Role *string `json:"role,omitempty" validate:"omitempty,oneof=RENTER STAFF ADMIN"`
}

type CreateStaffRequest struct {
	Email     string  `json:"email" validate:"required,email,max=255"`
	Password  string  `json:"password" validate:"required,min=8,max=72"`
	FullName  string  `json:"fullName" validate:"required,min=2,max=100"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,min=10,max=15"`
	StationID *string `json:"stationId,omitempty" validate:"omitempty,uuid"`
}

type UpdateUserStatusRequest struct {
	IsActive *bool `json:"isActive" validate:"required"`
}

type UpdateProfileRequest struct {
	FullName *string `json:"fullName,omitempty" validate:"omitempty,min=2,max=100"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=10,max=15"`
}
