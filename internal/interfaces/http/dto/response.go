package dto

// Response statuses
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response represents a standard API response
type Response struct {
	Status  string      `json:"status"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// PaginatedData wraps a result page together with pagination figures
type PaginatedData struct {
	Data        interface{} `json:"data"`
	CurrentPage int         `json:"current_page"`
	PerPage     int         `json:"per_page"`
	LastPage    int         `json:"last_page"`
	Total       int64       `json:"total"`
}

// NewSuccessResponse creates a success response
func NewSuccessResponse(data interface{}) Response {
	return Response{
		Status: StatusSuccess,
		Data:   data,
	}
}

// NewErrorResponse creates an error response
func NewErrorResponse(message string) Response {
	return Response{
		Status:  StatusError,
		Message: message,
	}
}

// NewPaginatedResponse creates a success response wrapping a result page
func NewPaginatedResponse(data interface{}, total int64, page, perPage int) Response {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 20
	}
	lastPage := int(total) / perPage
	if int(total)%perPage > 0 {
		lastPage++
	}
	if lastPage < 1 {
		lastPage = 1
	}
	return Response{
		Status: StatusSuccess,
		Data: PaginatedData{
			Data:        data,
			CurrentPage: page,
			PerPage:     perPage,
			LastPage:    lastPage,
			Total:       total,
		},
	}
}
