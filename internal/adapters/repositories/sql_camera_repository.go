package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"waste-collection-service/internal/domain"
	"waste-collection-service/internal/platform/db"
)

// SQL-backed implementation of the CameraRepository port.
type SQLCameraRepository struct{ store }

func NewSQLCameraRepository(conn *sql.DB, dialect db.Dialect) *SQLCameraRepository {
	return &SQLCameraRepository{store{DB: conn, Dialect: dialect}}
}

const cameraColumns = `id, camera_id, name, bin_id, lat, lon, active`

func scanCamera(row rowScanner) (*domain.Camera, error) {
	var c domain.Camera
	if err := row.Scan(&c.ID, &c.CameraID, &c.Name, &c.BinID, &c.Lat, &c.Lon, &c.Active); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *SQLCameraRepository) Get(ctx context.Context, id int64) (*domain.Camera, error) {
	if err := s.check("get camera"); err != nil {
		return nil, err
	}

	c, err := scanCamera(s.DB.QueryRowContext(ctx, s.q(`SELECT `+cameraColumns+` FROM cameras WHERE id = ?`), id))
	if err != nil {
		return nil, mapNoRows(fmt.Sprintf("get camera id=%d", id), err)
	}
	return c, nil
}

func (s *SQLCameraRepository) List(ctx context.Context) ([]*domain.Camera, error) {
	if err := s.check("list cameras"); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `SELECT `+cameraColumns+` FROM cameras ORDER BY id;`)
	if err != nil {
		return nil, fmt.Errorf("list cameras: query cameras table: %w", err)
	}
	defer rows.Close()

	cameras := make([]*domain.Camera, 0, 16)
	for rows.Next() {
		c, err := scanCamera(rows)
		if err != nil {
			return nil, fmt.Errorf("list cameras: scan row: %w", err)
		}
		cameras = append(cameras, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cameras: row iteration: %w", err)
	}

	return cameras, nil
}

func (s *SQLCameraRepository) Create(ctx context.Context, c *domain.Camera) error {
	if err := s.check("create camera"); err != nil {
		return err
	}
	if c == nil {
		return errors.New("create camera: camera is nil")
	}

	err := s.DB.QueryRowContext(ctx, s.q(`
	INSERT INTO cameras (camera_id, name, bin_id, lat, lon, active)
	VALUES (?, ?, ?, ?, ?, ?)
	RETURNING id;
	`), c.CameraID, c.Name, c.BinID, c.Lat, c.Lon, c.Active).Scan(&c.ID)
	if err != nil {
		return mapWriteErr(fmt.Sprintf("create camera camera_id=%q", c.CameraID), err)
	}
	return nil
}

func (s *SQLCameraRepository) Update(ctx context.Context, c *domain.Camera) error {
	if err := s.check("update camera"); err != nil {
		return err
	}
	if c == nil {
		return errors.New("update camera: camera is nil")
	}

	op := fmt.Sprintf("update camera id=%d", c.ID)
	res, err := s.DB.ExecContext(ctx, s.q(`
	UPDATE cameras SET camera_id = ?, name = ?, bin_id = ?, lat = ?, lon = ?, active = ?
	WHERE id = ?;
	`), c.CameraID, c.Name, c.BinID, c.Lat, c.Lon, c.Active, c.ID)
	if err != nil {
		return mapWriteErr(op, err)
	}
	return expectOne(op, res)
}

// Delete the camera; its images are removed by the foreign key cascade.
func (s *SQLCameraRepository) Delete(ctx context.Context, id int64) error {
	if err := s.check("delete camera"); err != nil {
		return err
	}

	op := fmt.Sprintf("delete camera id=%d", id)
	res, err := s.DB.ExecContext(ctx, s.q(`DELETE FROM cameras WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return expectOne(op, res)
}

// SQL-backed implementation of the CameraImageRepository port.
type SQLCameraImageRepository struct{ store }

func NewSQLCameraImageRepository(conn *sql.DB, dialect db.Dialect) *SQLCameraImageRepository {
	return &SQLCameraImageRepository{store{DB: conn, Dialect: dialect}}
}

const imageColumns = `id, camera_id, analysis_type, path, thumbnail_path, width, height, size_bytes, uploaded_at`

func scanImage(row rowScanner) (*domain.CameraImage, error) {
	var img domain.CameraImage
	var kind string
	err := row.Scan(
		&img.ID, &img.CameraID, &kind, &img.Path, &img.ThumbnailPath,
		&img.Width, &img.Height, &img.SizeBytes, timestamp{&img.UploadedAt},
	)
	if err != nil {
		return nil, err
	}
	img.AnalysisType = domain.AnalysisType(kind)
	return &img, nil
}

func (s *SQLCameraImageRepository) Get(ctx context.Context, id int64) (*domain.CameraImage, error) {
	if err := s.check("get camera image"); err != nil {
		return nil, err
	}

	img, err := scanImage(s.DB.QueryRowContext(ctx, s.q(`SELECT `+imageColumns+` FROM camera_images WHERE id = ?`), id))
	if err != nil {
		return nil, mapNoRows(fmt.Sprintf("get camera image id=%d", id), err)
	}
	return img, nil
}

func (s *SQLCameraImageRepository) ListByCamera(ctx context.Context, cameraID int64) ([]*domain.CameraImage, error) {
	if err := s.check("list camera images"); err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, s.q(`
	SELECT `+imageColumns+`
	FROM camera_images
	WHERE camera_id = ?
	ORDER BY uploaded_at DESC, id DESC;
	`), cameraID)
	if err != nil {
		return nil, fmt.Errorf("list camera images: query camera_images table: %w", err)
	}
	defer rows.Close()

	images := make([]*domain.CameraImage, 0, 16)
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, fmt.Errorf("list camera images: scan row: %w", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list camera images: row iteration: %w", err)
	}

	return images, nil
}

func (s *SQLCameraImageRepository) Create(ctx context.Context, img *domain.CameraImage) error {
	if err := s.check("create camera image"); err != nil {
		return err
	}
	if img == nil {
		return errors.New("create camera image: image is nil")
	}
	if img.AnalysisType == "" {
		img.AnalysisType = domain.AnalysisGeneral
	}

	img.UploadedAt = nowIfZero(img.UploadedAt)
	err := s.DB.QueryRowContext(ctx, s.q(`
	INSERT INTO camera_images (camera_id, analysis_type, path, thumbnail_path, width, height, size_bytes, uploaded_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	RETURNING id;
	`),
		img.CameraID, string(img.AnalysisType), img.Path, img.ThumbnailPath,
		img.Width, img.Height, img.SizeBytes, img.UploadedAt,
	).Scan(&img.ID)
	if err != nil {
		return mapWriteErr(fmt.Sprintf("create camera image camera_id=%d", img.CameraID), err)
	}
	return nil
}

func (s *SQLCameraImageRepository) Update(ctx context.Context, img *domain.CameraImage) error {
	if err := s.check("update camera image"); err != nil {
		return err
	}
	if img == nil {
		return errors.New("update camera image: image is nil")
	}

	op := fmt.Sprintf("update camera image id=%d", img.ID)
	res, err := s.DB.ExecContext(ctx, s.q(`
	UPDATE camera_images
	SET analysis_type = ?, path = ?, thumbnail_path = ?, width = ?, height = ?, size_bytes = ?
	WHERE id = ?;
	`), string(img.AnalysisType), img.Path, img.ThumbnailPath, img.Width, img.Height, img.SizeBytes, img.ID)
	if err != nil {
		return mapWriteErr(op, err)
	}
	return expectOne(op, res)
}

func (s *SQLCameraImageRepository) Delete(ctx context.Context, id int64) error {
	if err := s.check("delete camera image"); err != nil {
		return err
	}

	op := fmt.Sprintf("delete camera image id=%d", id)
	res, err := s.DB.ExecContext(ctx, s.q(`DELETE FROM camera_images WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return expectOne(op, res)
}
