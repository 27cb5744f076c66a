package constants

const (
	//分頁
	DefaultPagingSize int = 10
	DefaultPaging     int = 1
	MaxPagingSize     int = 100
)

type SortOrderEnum string

const (
	DefaultSortOrder SortOrderEnum = "asc"
	SortOrderAsc     SortOrderEnum = "asc"
	SortOrderDesc    SortOrderEnum = "desc"
)

func IsValidSortOrderEnum(order string) bool {
	switch SortOrderEnum(order) {
	case SortOrderAsc, SortOrderDesc:
		return true
	default:
		return false
	}
}

// for api auth
type ContextKey string

const (
	AuthorizationHeaderKey  ContextKey = "authorization"
	AuthorizationTypeBearer ContextKey = "bearer"
	AuthorizationPayloadKey ContextKey = "authorization_payload"
	AuthorizationRoleKey    ContextKey = "authorization_role"
)

type RoleEnum string

const (
	RoleUser  RoleEnum = "user"
	RoleAdmin RoleEnum = "admin"
)

type TokenDurationHour int

const (
	AccessTokenDuration TokenDurationHour = 24
)

type RequestID string

const (
	RequestIDKey RequestID = "request_id"
)
