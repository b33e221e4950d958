package term

import (
	"crypto/sha256"
	"sort"
	"sync"
	"time"
)

// ImageFormat names the pixel encoding of an ImageData payload.
type ImageFormat uint8

const (
	ImageFormatRGBA ImageFormat = iota
	ImageFormatRGB
	ImageFormatPNG
)

// DefaultImageMemoryBudget bounds how much decoded pixel data ImageManager
// retains before evicting the least recently displayed image. Sixel and
// Kitty payloads can decode to tens of megabytes apiece; without a budget a
// long-running session that scrolls past many inline images grows without
// bound.
const DefaultImageMemoryBudget = 320 * 1024 * 1024

// ImageData is one decoded image: pixels plus the bookkeeping needed for
// deduplication and LRU eviction.
type ImageData struct {
	ID         uint32
	Width      uint32
	Height     uint32
	Data       []byte // always normalized to RGBA before storage
	Hash       [32]byte
	CreatedAt  time.Time
	AccessedAt time.Time
}

// ImagePlacement is one displayed instance of an ImageData: where on the
// grid it sits, which source region is shown, and at what layer.
type ImagePlacement struct {
	ID      uint32
	ImageID uint32

	Row, Col   int
	Cols, Rows int

	SrcX, SrcY uint32
	SrcW, SrcH uint32

	ZIndex int32

	OffsetX, OffsetY uint32
}

// CellImage is the lightweight per-cell reference a Cell carries instead of
// embedding pixel data directly: a placement ID plus the normalized UV
// rectangle identifying which slice of the source image this cell shows.
type CellImage struct {
	PlacementID uint32
	ImageID     uint32

	U0, V0 float32
	U1, V1 float32

	ZIndex int32
}

// ImageManager owns the lifecycle of every image attached to a terminal:
// storage with hash-based deduplication, placements on the grid, and
// memory-bounded eviction. One instance is shared by the sixel and Kitty
// decoders, since both protocols place images into the same cell space.
type ImageManager struct {
	mu sync.RWMutex

	images     map[uint32]*ImageData
	placements map[uint32]*ImagePlacement
	hashToID   map[[32]byte]uint32

	nextImageID     uint32
	nextPlacementID uint32

	maxMemory  int64
	usedMemory int64

	// Kitty transfers can arrive split across multiple APC chunks; these
	// fields hold the in-progress reassembly between Write calls.
	accumulator            []byte
	accumulatorID           uint32
	accumulatorMore         bool
	accumulatorFormat       KittyFormat
	accumulatorWidth        uint32
	accumulatorHeight       uint32
	accumulatorCompression  byte
}

// NewImageManager returns a manager at DefaultImageMemoryBudget with no
// stored images.
func NewImageManager() *ImageManager {
	return &ImageManager{
		images:     make(map[uint32]*ImageData),
		placements: make(map[uint32]*ImagePlacement),
		hashToID:   make(map[[32]byte]uint32),
		maxMemory:  DefaultImageMemoryBudget,
	}
}

// SetMaxMemory overrides the eviction budget in bytes.
func (m *ImageManager) SetMaxMemory(bytes int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxMemory = bytes
}

// Store saves pixel data under a fresh ID, or returns the ID of an
// already-stored image with an identical hash — sixel redraws of an
// unchanged frame are common and shouldn't duplicate memory.
func (m *ImageManager) Store(width, height uint32, data []byte) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()

	hash := sha256.Sum256(data)

	if existingID, ok := m.hashToID[hash]; ok {
		if img, ok := m.images[existingID]; ok {
			img.AccessedAt = time.Now()
			return existingID
		}
	}

	m.nextImageID++
	id := m.nextImageID
	m.storeLocked(id, width, height, data, hash)
	return id
}

// StoreWithID saves pixel data under a caller-chosen ID, replacing any
// existing image at that ID. Kitty assigns its own image IDs over the
// wire, unlike sixel which has no ID concept and always calls Store.
func (m *ImageManager) StoreWithID(id, width, height uint32, data []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()

	hash := sha256.Sum256(data)

	if old, ok := m.images[id]; ok {
		m.usedMemory -= int64(len(old.Data))
		delete(m.hashToID, old.Hash)
	}

	m.storeLocked(id, width, height, data, hash)

	if id >= m.nextImageID {
		m.nextImageID = id + 1
	}
}

func (m *ImageManager) storeLocked(id, width, height uint32, data []byte, hash [32]byte) {
	now := time.Now()
	m.images[id] = &ImageData{
		ID:         id,
		Width:      width,
		Height:     height,
		Data:       data,
		Hash:       hash,
		CreatedAt:  now,
		AccessedAt: now,
	}
	m.hashToID[hash] = id
	m.usedMemory += int64(len(data))

	if m.usedMemory > m.maxMemory {
		m.pruneLocked()
	}
}

// Image returns the stored image for id, touching its access time, or nil.
func (m *ImageManager) Image(id uint32) *ImageData {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if img, ok := m.images[id]; ok {
		img.AccessedAt = time.Now()
		return img
	}
	return nil
}

// Place registers a placement and assigns it a fresh placement ID.
func (m *ImageManager) Place(p *ImagePlacement) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextPlacementID++
	p.ID = m.nextPlacementID
	m.placements[p.ID] = p
	return p.ID
}

// Placement looks up a placement by ID, or nil if it has been removed.
func (m *ImageManager) Placement(id uint32) *ImagePlacement {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.placements[id]
}

// Placements returns every current placement in unspecified order.
func (m *ImageManager) Placements() []*ImagePlacement {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*ImagePlacement, 0, len(m.placements))
	for _, p := range m.placements {
		result = append(result, p)
	}
	return result
}

// RemovePlacement deletes one placement by ID.
func (m *ImageManager) RemovePlacement(id uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.placements, id)
}

// RemovePlacementsForImage deletes every placement referencing imageID,
// without touching the underlying ImageData (Kitty's delete-placements
// action leaves the image itself storable for reuse).
func (m *ImageManager) RemovePlacementsForImage(imageID uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, p := range m.placements {
		if p.ImageID == imageID {
			delete(m.placements, id)
		}
	}
}

// DeleteImage removes an image and every placement that referenced it.
func (m *ImageManager) DeleteImage(id uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if img, ok := m.images[id]; ok {
		m.usedMemory -= int64(len(img.Data))
		delete(m.hashToID, img.Hash)
		delete(m.images, id)
	}

	for pid, p := range m.placements {
		if p.ImageID == id {
			delete(m.placements, pid)
		}
	}
}

// Clear drops every image and placement, including in-progress Kitty
// chunk reassembly state.
func (m *ImageManager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.images = make(map[uint32]*ImageData)
	m.placements = make(map[uint32]*ImagePlacement)
	m.hashToID = make(map[[32]byte]uint32)
	m.usedMemory = 0
	m.accumulator = nil
}

// UsedMemory reports current decoded-pixel memory usage in bytes.
func (m *ImageManager) UsedMemory() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.usedMemory
}

// ImageCount reports how many distinct images are stored.
func (m *ImageManager) ImageCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.images)
}

// PlacementCount reports how many placements are active.
func (m *ImageManager) PlacementCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.placements)
}

// pruneLocked evicts unreferenced images, oldest-accessed first, until
// usedMemory is back under maxMemory or nothing unreferenced remains. An
// image with at least one live placement is never evicted regardless of
// age — the screen may still be showing it. Caller must hold mu.
func (m *ImageManager) pruneLocked() {
	referenced := make(map[uint32]bool, len(m.placements))
	for _, p := range m.placements {
		referenced[p.ImageID] = true
	}

	type evictionCandidate struct {
		id   uint32
		seen time.Time
		size int64
	}
	var candidates []evictionCandidate
	for id, img := range m.images {
		if !referenced[id] {
			candidates = append(candidates, evictionCandidate{id, img.AccessedAt, int64(len(img.Data))})
		}
	}

	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].seen.Before(candidates[j].seen)
	})

	for _, c := range candidates {
		if m.usedMemory <= m.maxMemory {
			return
		}
		if img, ok := m.images[c.id]; ok {
			delete(m.hashToID, img.Hash)
			delete(m.images, c.id)
			m.usedMemory -= c.size
		}
	}
}

// DeletePlacementsByPosition removes placements covering the given cell —
// used when a regular character overwrites an image-bearing cell.
func (m *ImageManager) DeletePlacementsByPosition(row, col int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, p := range m.placements {
		if row >= p.Row && row < p.Row+p.Rows &&
			col >= p.Col && col < p.Col+p.Cols {
			delete(m.placements, id)
		}
	}
}

// DeletePlacementsByZIndex removes every placement at a given layer.
func (m *ImageManager) DeletePlacementsByZIndex(z int32) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, p := range m.placements {
		if p.ZIndex == z {
			delete(m.placements, id)
		}
	}
}

// DeletePlacementsInRow removes every placement intersecting a row —
// used by erase-line and scroll operations.
func (m *ImageManager) DeletePlacementsInRow(row int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, p := range m.placements {
		if row >= p.Row && row < p.Row+p.Rows {
			delete(m.placements, id)
		}
	}
}

// DeletePlacementsInColumn removes every placement intersecting a column.
func (m *ImageManager) DeletePlacementsInColumn(col int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for id, p := range m.placements {
		if col >= p.Col && col < p.Col+p.Cols {
			delete(m.placements, id)
		}
	}
}
