package book

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// CreateBookRequest is bound from a multipart form or a JSON body. Tags
// accepts a JSON array string, a comma list or an array.
type CreateBookRequest struct {
	Title                     string      `json:"title" form:"title"`
	Author                    string      `json:"author" form:"author"`
	Description               *string     `json:"description" form:"description"`
	ISBN                      *string     `json:"isbn" form:"isbn"`
	Tags                      interface{} `json:"tags" form:"-"`
	Content                   string      `json:"content" form:"content"`
	Status                    string      `json:"status" form:"status"`
	CategoryID                string      `json:"categoryId" form:"categoryId"`
	SubCategoryID             string      `json:"subCategoryId" form:"subCategoryId"`
	AllowChapterContributions *bool       `json:"allowChapterContributions" form:"allowChapterContributions"`
}

func (r CreateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.Required.Error("Title is required."), validation.Length(1, 255)),
		validation.Field(&r.Author, validation.Length(0, 255)),
		validation.Field(&r.ISBN, validation.Length(0, 32)),
		validation.Field(&r.Description, validation.Length(0, 5000)),
	)
}

type UpdateBookRequest struct {
	Title                     *string     `json:"title" form:"title"`
	Author                    *string     `json:"author" form:"author"`
	Description               *string     `json:"description" form:"description"`
	ISBN                      *string     `json:"isbn" form:"isbn"`
	Tags                      interface{} `json:"tags" form:"-"`
	Content                   *string     `json:"content" form:"content"`
	Status                    *string     `json:"status" form:"status"`
	CategoryID                *string     `json:"categoryId" form:"categoryId"`
	SubCategoryID             *string     `json:"subCategoryId" form:"subCategoryId"`
	AllowChapterContributions *bool       `json:"allowChapterContributions" form:"allowChapterContributions"`
}

func (r UpdateBookRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Title, validation.NilOrNotEmpty.Error("Title cannot be empty."), validation.Length(1, 255)),
		validation.Field(&r.Author, validation.Length(0, 255)),
		validation.Field(&r.ISBN, validation.Length(0, 32)),
		validation.Field(&r.Description, validation.Length(0, 5000)),
	)
}
