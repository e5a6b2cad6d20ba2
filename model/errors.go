package model

import "errors"

var (
	ErrInvalidInput   = errors.New("INVALID_INPUT")
	ErrFetch          = errors.New("FETCH_ERROR")
	ErrUnknownSession = errors.New("UNKNOWN_SESSION")
	ErrAlreadyMounted = errors.New("ALREADY_MOUNTED")
	ErrStore          = errors.New("STORE_ERROR")
)

type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewAPIError(errReason error) APIError {
	switch {
	case errors.Is(errReason, ErrInvalidInput):
		return APIError{
			Code:    ErrInvalidInput.Error(),
			Message: errReason.Error(),
		}

	case errors.Is(errReason, ErrUnknownSession):
		return APIError{
			Code:    ErrUnknownSession.Error(),
			Message: "session expired or unknown. mount the page again to start a new one",
		}

	case errors.Is(errReason, ErrFetch):
		return APIError{
			Code:    ErrFetch.Error(),
			Message: "unable to reach the recommender or github. the next navigation will try again",
		}

	case errors.Is(errReason, ErrStore):
		return APIError{
			Code:    ErrStore.Error(),
			Message: "internal server error. contact our support with the reason code for assistance",
		}
	}

	return APIError{
		Code:    "GENERIC_ERROR",
		Message: "internal server error. contact our support with the reason code for assistance",
	}
}
