package store

// Config locates the on-disk store.
type Config interface {
	BasePath() string
}

// Dir is a Config naming the base directory directly.
type Dir string

func (d Dir) BasePath() string {
	return string(d)
}
