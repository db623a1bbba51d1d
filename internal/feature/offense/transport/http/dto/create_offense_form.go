// Package dto defines the form payloads of the offense pages.
package dto

// CreateOffenseForm is the payload of POST /offenses/new.
type CreateOffenseForm struct {
	Title   string `form:"title" binding:"required,max=200"`
	Content string `form:"content" binding:"required"`
}
