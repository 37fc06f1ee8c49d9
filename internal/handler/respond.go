package handler

import "github.com/labstack/echo/v4"

// Every /api response uses the same envelope: {success, data?, message?}.
// These helpers keep handlers from assembling it by hand.

type envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// respondData writes a success envelope carrying data.
func respondData(c echo.Context, code int, data interface{}) error {
	return c.JSON(code, envelope{Success: true, Data: data})
}

// respondDataMessage writes a success envelope carrying data and a
// human-readable message.
func respondDataMessage(c echo.Context, code int, data interface{}, msg string) error {
	return c.JSON(code, envelope{Success: true, Data: data, Message: msg})
}

// respondError writes a failure envelope with a message.
func respondError(c echo.Context, code int, msg string) error {
	return c.JSON(code, envelope{Success: false, Message: msg})
}
