package domain

// Ключи payload точки в векторном индексе.
const (
	PayloadItemID        = "item_id"
	PayloadUserID        = "user_id"
	PayloadCategoryGroup = "category_group"
	PayloadCategory      = "category"
	PayloadImageURL      = "image_url"
)

// Значения по умолчанию для атрибутов, которые классификатор не распознал.
const (
	DefaultUnknown  = "Unknown"
	DefaultSeason   = "All Season"
	DefaultOccasion = "Casual"
)

// IndexedPayloadFields - поля payload с keyword-индексом, только по ним строится фильтр.
var IndexedPayloadFields = []string{
	PayloadUserID,
	PayloadCategoryGroup,
	PayloadCategory,
	AttrColor,
	AttrOccasion,
	AttrSeason,
}

// Payload описывает дополнительную информацию вектора
type Payload map[string]any

// String возвращает строковое значение ключа или пустую строку.
func (p Payload) String(key string) string {
	v, _ := p[key].(string)
	return v
}

// Embedding представляет эмбеддинг одной вещи
type Embedding struct {
	ID      string
	Vector  []float32
	Payload Payload
}

func NewEmbedding(id string, vector []float32, payload Payload) *Embedding {
	return &Embedding{
		ID:      id,
		Vector:  vector,
		Payload: payload,
	}
}

// NewGarmentPayload собирает payload точки из вещи. Нераспознанные атрибуты получают значения по умолчанию,
// остальные строковые атрибуты переносятся как есть.
func NewGarmentPayload(g *Garment) Payload {
	p := Payload{
		PayloadItemID:        g.ID,
		PayloadUserID:        g.OwnerID,
		PayloadCategoryGroup: string(g.CategoryGroup),
		PayloadCategory:      g.Category,
		PayloadImageURL:      g.ImageURL,
		AttrColor:            DefaultUnknown,
		AttrPattern:          DefaultUnknown,
		AttrMaterial:         DefaultUnknown,
		AttrSeason:           DefaultSeason,
		AttrOccasion:         DefaultOccasion,
	}

	for k, v := range g.Attributes {
		if v == "" {
			continue
		}
		if _, reserved := p[k]; reserved && !isAttributeKey(k) {
			continue
		}
		p[k] = v
	}

	return p
}

func isAttributeKey(k string) bool {
	switch k {
	case AttrColor, AttrPattern, AttrMaterial, AttrSeason, AttrOccasion:
		return true
	}
	return false
}

// VectorMatch - одна строка результата поиска ближайших соседей.
type VectorMatch struct {
	ID      string
	Score   float32
	Payload Payload
}
