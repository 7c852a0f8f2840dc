package animation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tanema/gween/ease"
)

var easings = map[string]ease.TweenFunc{
	"linear":     ease.Linear,
	"inquad":     ease.InQuad,
	"outquad":    ease.OutQuad,
	"inoutquad":  ease.InOutQuad,
	"incubic":    ease.InCubic,
	"outcubic":   ease.OutCubic,
	"inoutcubic": ease.InOutCubic,
	"inquart":    ease.InQuart,
	"outquart":   ease.OutQuart,
	"inoutquart": ease.InOutQuart,
	"insine":     ease.InSine,
	"outsine":    ease.OutSine,
	"inoutsine":  ease.InOutSine,
	"inexpo":     ease.InExpo,
	"outexpo":    ease.OutExpo,
	"inoutexpo":  ease.InOutExpo,
	"outbounce":  ease.OutBounce,
	"outelastic": ease.OutElastic,
}

// EaseByName resolves an easing name such as "outCubic" or "in-out-sine".
// Matching ignores case, dashes and underscores.
func EaseByName(name string) (ease.TweenFunc, error) {
	key := strings.NewReplacer("-", "", "_", "", " ", "").Replace(strings.ToLower(name))
	if fn, ok := easings[key]; ok {
		return fn, nil
	}
	return nil, fmt.Errorf("unknown easing %q (known: %s)", name, strings.Join(EaseNames(), ", "))
}

// EaseNames lists the accepted easing names in sorted order.
func EaseNames() []string {
	names := make([]string, 0, len(easings))
	for k := range easings {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
