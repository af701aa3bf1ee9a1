package service

import (
	"context"
	"fmt"

	"talenta-backend/internal/domains/access"
	"talenta-backend/internal/domains/user"
	"talenta-backend/internal/shared/apperror"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Users"

var exportHeaders = []string{
	"ID", "First Name", "Last Name", "Email", "Phone", "Role",
	"Active", "Verified", "Books", "Audio", "Created At",
}

// Export writes the users matching filter, ignoring its paging, to a
// single-sheet workbook.
func (s *userService) Export(ctx context.Context, actor *access.Actor, filter user.ListFilter) (*excelize.File, error) {
	if err := listing(actor); err != nil {
		return nil, err
	}

	filter.Normalize()
	if err := filter.Validate(); err != nil {
		return nil, apperror.FromValidation(err)
	}
	filter.Page, filter.Limit = 1, exportLimit

	users, _, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list users for export: %w", err)
	}

	f, err := buildUsersWorkbook(users)
	if err != nil {
		return nil, fmt.Errorf("build users workbook: %w", err)
	}
	return f, nil
}

func buildUsersWorkbook(users []user.User) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	for col, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(exportSheet, cell, header); err != nil {
			return nil, err
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(exportHeaders), 1)
		_ = f.SetCellStyle(exportSheet, "A1", last, headerStyle)
	}

	for i, u := range users {
		row := i + 2
		var books, audios int64
		if u.Counts != nil {
			books, audios = u.Counts.Books, u.Counts.Audios
		}
		phone := ""
		if u.Phone != nil {
			phone = *u.Phone
		}

		values := []interface{}{
			u.ID.String(), u.FirstName, u.LastName, u.Email, phone, string(u.Role),
			u.IsActive, u.IsVerified, books, audios, u.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(exportSheet, cell, &values); err != nil {
			return nil, err
		}
	}
	return f, nil
}
