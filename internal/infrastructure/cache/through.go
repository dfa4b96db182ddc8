package cache

import "context"

// Through resuelve una lectura a través del caché: un acierto fresco devuelve
// el valor; un acierto obsoleto devuelve el valor y dispara el refresco en
// segundo plano; un fallo consulta el origen de forma síncrona. Los accesos
// concurrentes al origen por la misma clave se deduplican con singleflight.
func Through[T any](ctx context.Context, s *Store, key Key, fetch func(context.Context) (T, error)) (T, error) {
	if v, fresh, ok := s.get(key); ok {
		if cached, castOK := v.(T); castOK {
			if !fresh {
				s.refreshAsync(key, func(rctx context.Context) (any, error) {
					return fetch(rctx)
				})
			}
			return cached, nil
		}
		s.entries.Delete(key.String())
	}

	var zero T
	v, err, _ := s.group.Do(key.String(), func() (any, error) {
		val, err := fetch(ctx)
		if err != nil {
			return nil, err
		}
		s.set(key, val)
		return val, nil
	})
	if err != nil {
		return zero, err
	}
	if typed, ok := v.(T); ok {
		return typed, nil
	}
	return fetch(ctx)
}
