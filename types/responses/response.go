package responses

type Response[T any] struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data"`
}

func Successful[T any](data T) *Response[T] {
	return &Response[T]{Status: "successful", Data: data}
}
