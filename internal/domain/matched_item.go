package domain

// SourceScore - фиксированная оценка исходной вещи, она не вычисляется.
const SourceScore float32 = 1.0

// MatchedItem - вещь, найденная при подборе, с косинусной близостью к исходной.
type MatchedItem struct {
	Garment  *Garment
	Score    float32
	IsSource bool
}

func NewSourceItem(g *Garment) MatchedItem {
	return MatchedItem{Garment: g, Score: SourceScore, IsSource: true}
}

func NewMatchedItem(g *Garment, score float32) MatchedItem {
	return MatchedItem{Garment: g, Score: score}
}
