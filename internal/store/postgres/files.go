package postgres

import (
	"context"
	"encoding/base64"

	"github.com/google/uuid"

	"github.com/groszeck/taxena-netlify/internal/models"
	"github.com/groszeck/taxena-netlify/internal/store"
)

const fileMetaColumns = `id, company_id, file_name, file_type, octet_length(file_data)::bigint, uploaded_by, created_at`

func scanFileMeta(row scannable) (models.File, error) {
	var f models.File
	err := row.Scan(&f.ID, &f.CompanyID, &f.FileName, &f.FileType, &f.FileSize, &f.UploadedBy, &f.CreatedAt)
	return f, err
}

func (s *Store) ListFiles(ctx context.Context, companyID string, page store.Page) ([]models.File, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+fileMetaColumns+`
		FROM files
		WHERE company_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, wrap(err, "list files")
	}
	items, err := collect(rows, scanFileMeta)
	return items, wrap(err, "list files")
}

// GetFile returns the file with its content base64 encoded.
func (s *Store) GetFile(ctx context.Context, companyID, id string) (models.File, error) {
	var (
		f    models.File
		data []byte
	)
	err := s.db.QueryRow(ctx, `
		SELECT `+fileMetaColumns+`, file_data
		FROM files
		WHERE id = $1 AND company_id = $2
	`, id, companyID).Scan(&f.ID, &f.CompanyID, &f.FileName, &f.FileType, &f.FileSize, &f.UploadedBy, &f.CreatedAt, &data)
	if err != nil {
		return models.File{}, wrap(err, "get file")
	}
	f.FileData = base64.StdEncoding.EncodeToString(data)
	return f, nil
}

func (s *Store) CreateFile(ctx context.Context, companyID, userID string, upload store.FileUpload) (models.File, error) {
	f, err := scanFileMeta(s.db.QueryRow(ctx, `
		INSERT INTO files (id, company_id, file_name, file_type, file_data, uploaded_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+fileMetaColumns,
		uuid.NewString(), companyID, upload.FileName, upload.FileType, upload.Data, userID))
	if err != nil {
		return models.File{}, wrap(err, "create file")
	}
	return f, nil
}

func (s *Store) DeleteFile(ctx context.Context, companyID, id string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM files WHERE id = $1 AND company_id = $2`, id, companyID)
	return expectOne(tag, err, "delete file")
}
