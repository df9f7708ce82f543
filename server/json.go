package server

import (
	"github.com/mailru/easyjson/jwriter"
	"github.com/royalcat/rquadtree/quadtree"
)

type pointJSON quadtree.Point

func (p pointJSON) MarshalJSON() ([]byte, error) {
	w := jwriter.Writer{}
	writePoint(&w, quadtree.Point(p))
	return w.BuildBytes()
}

type pointList []quadtree.Point

func writePoint(w *jwriter.Writer, p quadtree.Point) {
	w.RawByte('[')
	w.Float64(p.X)
	w.RawByte(',')
	w.Float64(p.Y)
	w.RawByte(']')
}

func (l pointList) MarshalEasyJSON(w *jwriter.Writer) {
	w.RawByte('[')
	for i, p := range l {
		if i > 0 {
			w.RawByte(',')
		}
		writePoint(w, p)
	}
	w.RawByte(']')
}

func (l pointList) MarshalJSON() ([]byte, error) {
	w := jwriter.Writer{}
	l.MarshalEasyJSON(&w)
	return w.BuildBytes()
}

type pointLists []pointList

func (ls pointLists) MarshalJSON() ([]byte, error) {
	w := jwriter.Writer{}
	w.RawByte('[')
	for i, l := range ls {
		if i > 0 {
			w.RawByte(',')
		}
		l.MarshalEasyJSON(&w)
	}
	w.RawByte(']')
	return w.BuildBytes()
}

type insertResult struct {
	Inserted int `json:"inserted"`
	Rejected int `json:"rejected"`
}

func (r insertResult) MarshalJSON() ([]byte, error) {
	w := jwriter.Writer{}
	w.RawString(`{"inserted":`)
	w.Int(r.Inserted)
	w.RawString(`,"rejected":`)
	w.Int(r.Rejected)
	w.RawByte('}')
	return w.BuildBytes()
}

type countResult struct {
	Count int `json:"count"`
	Depth int `json:"depth"`
}

func (r countResult) MarshalJSON() ([]byte, error) {
	w := jwriter.Writer{}
	w.RawString(`{"count":`)
	w.Int(r.Count)
	w.RawString(`,"depth":`)
	w.Int(r.Depth)
	w.RawByte('}')
	return w.BuildBytes()
}
