package todo

import (
	"fmt"

	"github.com/nlpodyssey/gopickle/pickle"
	"github.com/nlpodyssey/gopickle/types"

	"github.com/nibzard/stickyweek/internal/persist"
	"github.com/nibzard/stickyweek/internal/week"
)

// loadLegacy decodes a pickled {Day: [{"Description": str, "Done": bool}]}.
// Record keys other than Description and Done are ignored.
func loadLegacy(path string) (Week, error) {
	obj, err := pickle.Load(path)
	if err != nil {
		return nil, persist.Corrupt("migrate", path, err)
	}
	w, err := legacyWeek(obj)
	if err != nil {
		return nil, persist.Corrupt("migrate", path, err)
	}
	return w, nil
}

func legacyWeek(obj interface{}) (Week, error) {
	root, ok := obj.(*types.Dict)
	if !ok {
		return nil, fmt.Errorf("top level is %T, want dict", obj)
	}

	w := NewWeek()
	for _, d := range week.Days {
		v, ok := root.Get(string(d))
		if !ok || v == nil {
			continue
		}
		list, ok := v.(*types.List)
		if !ok {
			return nil, fmt.Errorf("%s is %T, want list", d, v)
		}
		for i, item := range *list {
			t, err := legacyTask(item)
			if err != nil {
				return nil, fmt.Errorf("%s[%d]: %w", d, i, err)
			}
			w[d] = append(w[d], t)
		}
	}
	w.normalize()
	return w, nil
}

func legacyTask(item interface{}) (*Task, error) {
	rec, ok := item.(*types.Dict)
	if !ok {
		return nil, fmt.Errorf("record is %T, want dict", item)
	}
	t := &Task{}
	if v, ok := rec.Get("Description"); ok {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("Description is %T, want str", v)
		}
		t.Description = s
	}
	if v, ok := rec.Get("Done"); ok {
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("Done is %T, want bool", v)
		}
		t.Done = b
	}
	return t, nil
}
