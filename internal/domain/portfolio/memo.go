package portfolio

import "context"

type memoSource struct {
	source Source
	values map[Worksheet][][]string
	errs   map[Worksheet]error
}

// Memoize wraps source so each worksheet is read at most once, errors
// included. Meant to live for a single page render; not safe for concurrent
// use.
func Memoize(source Source) Source {
	return &memoSource{
		source: source,
		values: make(map[Worksheet][][]string),
		errs:   make(map[Worksheet]error),
	}
}

func (m *memoSource) Values(ctx context.Context, ws Worksheet) ([][]string, error) {
	if err, ok := m.errs[ws]; ok {
		return nil, err
	}
	if values, ok := m.values[ws]; ok {
		return values, nil
	}

	values, err := m.source.Values(ctx, ws)
	if err != nil {
		m.errs[ws] = err
		return nil, err
	}
	m.values[ws] = values
	return values, nil
}
