package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"waste-collection-service/internal/domain"
	"waste-collection-service/internal/ports"
)

// memBins is an in-memory ports.BinRepository ordered by ID.
type memBins struct {
	rows   map[int64]*domain.Bin
	nextID int64
	err    error
}

func newMemBins(bins ...*domain.Bin) *memBins {
	m := &memBins{rows: map[int64]*domain.Bin{}}
	for _, b := range bins {
		m.nextID++
		c := *b
		c.ID = m.nextID
		m.rows[c.ID] = &c
	}
	return m
}

func (m *memBins) sorted() []*domain.Bin {
	out := make([]*domain.Bin, 0, len(m.rows))
	for _, b := range m.rows {
		c := *b
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (m *memBins) Get(_ context.Context, id int64) (*domain.Bin, error) {
	b, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *b
	return &c, nil
}

func (m *memBins) GetByBinID(_ context.Context, binID string) (*domain.Bin, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, b := range m.rows {
		if b.BinID == binID {
			c := *b
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memBins) List(context.Context) ([]*domain.Bin, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.sorted(), nil
}

func (m *memBins) ListByBinIDs(_ context.Context, ids []string) ([]*domain.Bin, error) {
	if m.err != nil {
		return nil, m.err
	}
	want := map[string]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []*domain.Bin
	for _, b := range m.sorted() {
		if want[b.BinID] {
			out = append(out, b)
		}
	}
	return out, nil
}

func (m *memBins) Create(_ context.Context, b *domain.Bin) error {
	m.nextID++
	b.ID = m.nextID
	c := *b
	m.rows[b.ID] = &c
	return nil
}

func (m *memBins) Update(_ context.Context, b *domain.Bin) error {
	if _, ok := m.rows[b.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *b
	m.rows[b.ID] = &c
	return nil
}

func (m *memBins) Delete(_ context.Context, id int64) error {
	if _, ok := m.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

func (m *memBins) UpsertByBinID(ctx context.Context, b *domain.Bin) (bool, error) {
	if existing, err := m.GetByBinID(ctx, b.BinID); err == nil {
		b.ID = existing.ID
		return false, m.Update(ctx, b)
	}
	return true, m.Create(ctx, b)
}

type memTrucks struct {
	rows []*domain.Truck
}

func (m *memTrucks) Get(_ context.Context, id int64) (*domain.Truck, error) {
	for _, t := range m.rows {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memTrucks) GetByTruckID(_ context.Context, truckID string) (*domain.Truck, error) {
	for _, t := range m.rows {
		if t.TruckID == truckID {
			return t, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memTrucks) List(context.Context) ([]*domain.Truck, error) { return m.rows, nil }

func (m *memTrucks) Create(_ context.Context, t *domain.Truck) error {
	t.ID = int64(len(m.rows) + 1)
	m.rows = append(m.rows, t)
	return nil
}

func (m *memTrucks) Update(context.Context, *domain.Truck) error { return nil }
func (m *memTrucks) Delete(context.Context, int64) error         { return nil }

type memSpots struct {
	rows []*domain.DumpingSpot
}

func (m *memSpots) Get(_ context.Context, id int64) (*domain.DumpingSpot, error) {
	for _, s := range m.rows {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memSpots) List(context.Context) ([]*domain.DumpingSpot, error) { return m.rows, nil }

func (m *memSpots) Create(_ context.Context, d *domain.DumpingSpot) error {
	d.ID = int64(len(m.rows) + 1)
	m.rows = append(m.rows, d)
	return nil
}

func (m *memSpots) Update(context.Context, *domain.DumpingSpot) error { return nil }
func (m *memSpots) Delete(context.Context, int64) error               { return nil }

type memReadings struct {
	rows []*domain.SensorReading
}

func (m *memReadings) Get(_ context.Context, id int64) (*domain.SensorReading, error) {
	for _, r := range m.rows {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memReadings) ListRecent(_ context.Context, limit int) ([]*domain.SensorReading, error) {
	out := []*domain.SensorReading{}
	for i := len(m.rows) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, m.rows[i])
	}
	return out, nil
}

func (m *memReadings) Create(_ context.Context, r *domain.SensorReading) error {
	r.ID = int64(len(m.rows) + 1)
	c := *r
	m.rows = append(m.rows, &c)
	return nil
}

func (m *memReadings) Update(context.Context, *domain.SensorReading) error { return nil }
func (m *memReadings) Delete(context.Context, int64) error                 { return nil }

type memUsers struct {
	rows map[string]*domain.User
}

func newMemUsers(users ...*domain.User) *memUsers {
	m := &memUsers{rows: map[string]*domain.User{}}
	for i, u := range users {
		u.ID = int64(i + 1)
		m.rows[u.Username] = u
	}
	return m
}

func (m *memUsers) Get(_ context.Context, id int64) (*domain.User, error) {
	for _, u := range m.rows {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memUsers) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	u, ok := m.rows[username]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (m *memUsers) List(context.Context) ([]*domain.User, error) {
	out := []*domain.User{}
	for _, u := range m.rows {
		out = append(out, u)
	}
	return out, nil
}

func (m *memUsers) Create(_ context.Context, u *domain.User) error {
	if _, ok := m.rows[u.Username]; ok {
		return domain.ErrConflict
	}
	u.ID = int64(len(m.rows) + 1)
	m.rows[u.Username] = u
	return nil
}

func (m *memUsers) Update(_ context.Context, u *domain.User) error {
	m.rows[u.Username] = u
	return nil
}

func (m *memUsers) Delete(context.Context, int64) error { return nil }

func (m *memUsers) SetActive(_ context.Context, username string, active bool) error {
	u, ok := m.rows[username]
	if !ok {
		return domain.ErrNotFound
	}
	u.IsActive = active
	return nil
}

func (m *memUsers) SetPassword(_ context.Context, username, hash string) error {
	u, ok := m.rows[username]
	if !ok {
		return domain.ErrNotFound
	}
	u.PasswordHash = hash
	return nil
}

type memCameras struct {
	rows map[int64]*domain.Camera
}

func (m *memCameras) Get(_ context.Context, id int64) (*domain.Camera, error) {
	c, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (m *memCameras) List(context.Context) ([]*domain.Camera, error) {
	out := []*domain.Camera{}
	for _, c := range m.rows {
		out = append(out, c)
	}
	return out, nil
}

func (m *memCameras) Create(_ context.Context, c *domain.Camera) error {
	c.ID = int64(len(m.rows) + 1)
	m.rows[c.ID] = c
	return nil
}

func (m *memCameras) Update(context.Context, *domain.Camera) error { return nil }

func (m *memCameras) Delete(_ context.Context, id int64) error {
	if _, ok := m.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

type memImages struct {
	rows      map[int64]*domain.CameraImage
	nextID    int64
	createErr error
	// Fail the Nth Create call (1-based) when createErr is set.
	failAt int
	calls  int
}

func newMemImages() *memImages { return &memImages{rows: map[int64]*domain.CameraImage{}} }

func (m *memImages) Get(_ context.Context, id int64) (*domain.CameraImage, error) {
	img, ok := m.rows[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return img, nil
}

func (m *memImages) ListByCamera(_ context.Context, cameraID int64) ([]*domain.CameraImage, error) {
	out := []*domain.CameraImage{}
	for _, img := range m.rows {
		if img.CameraID == cameraID {
			out = append(out, img)
		}
	}
	return out, nil
}

func (m *memImages) Create(_ context.Context, img *domain.CameraImage) error {
	m.calls++
	if m.createErr != nil && m.calls == m.failAt {
		return m.createErr
	}
	m.nextID++
	img.ID = m.nextID
	m.rows[img.ID] = img
	return nil
}

func (m *memImages) Update(context.Context, *domain.CameraImage) error { return nil }

func (m *memImages) Delete(_ context.Context, id int64) error {
	if _, ok := m.rows[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.rows, id)
	return nil
}

// memImageStore records saved and deleted paths without decoding anything.
type memImageStore struct {
	saved   map[string]bool
	n       int
	saveErr error
}

func newMemImageStore() *memImageStore { return &memImageStore{saved: map[string]bool{}} }

func (s *memImageStore) Save(_ context.Context, filename string, r io.Reader) (ports.StoredImage, error) {
	if s.saveErr != nil {
		return ports.StoredImage{}, s.saveErr
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return ports.StoredImage{}, err
	}
	s.n++
	p := fmt.Sprintf("camera_images/%d-%s", s.n, filename)
	t := fmt.Sprintf("camera_images/thumbnails/%d-%s", s.n, filename)
	s.saved[p] = true
	s.saved[t] = true
	return ports.StoredImage{Path: p, ThumbnailPath: t, Width: 4, Height: 3, SizeBytes: int64(buf.Len())}, nil
}

func (s *memImageStore) Delete(_ context.Context, paths ...string) error {
	for _, p := range paths {
		delete(s.saved, p)
	}
	return nil
}

type staticFeed struct {
	readings []domain.SensorReading
	err      error
}

func (f staticFeed) Fetch(context.Context) ([]domain.SensorReading, error) {
	return f.readings, f.err
}

var errBoom = errors.New("boom")
