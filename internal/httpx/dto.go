package httpx

// envelope is the shared response shape of every endpoint.
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Stock is a pointer so that an explicit zero can be told apart from an
// omitted field: stock is required but may legitimately be 0.
type createProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int    `json:"price"`
	Image       string `json:"image"`
	Stock       *int   `json:"stock"`
	Category    string `json:"category"`
	Featured    bool   `json:"featured"`
}

// Every field is a pointer: omitted fields keep their stored value.
type updateProductRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Price       *int    `json:"price"`
	Image       *string `json:"image"`
	Stock       *int    `json:"stock"`
	Category    *string `json:"category"`
	Featured    *bool   `json:"featured"`
}

type createOrderRequest struct {
	UserName  string           `json:"userName"`
	UserEmail string           `json:"userEmail"`
	Items     []orderItemInput `json:"items"`
	Total     int              `json:"total"`
}

type orderItemInput struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	Price     int    `json:"price"`
}

type adminLoginRequest struct {
	Password string `json:"password"`
}

type adminLoginResponse struct {
	Token string `json:"token"`
}
