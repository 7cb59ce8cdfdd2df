package decisions

import (
	"strings"

	"github.com/rgoncalves/smartcut/internal/types"
)

// functionSynonyms maps the labels advisory models actually emit, in
// English and Portuguese, onto the closed vocabulary. Advisory output is
// not trustworthy enough to treat unknown labels as errors.
var functionSynonyms = map[string]types.SegmentFunction{
	"hook":         types.FunctionHook,
	"gancho":       types.FunctionHook,
	"intro":        types.FunctionHook,
	"introduction": types.FunctionHook,
	"introducao":   types.FunctionHook,

	"development":     types.FunctionDevelopment,
	"desenvolvimento": types.FunctionDevelopment,
	"context":         types.FunctionDevelopment,
	"contexto":        types.FunctionDevelopment,
	"body":            types.FunctionDevelopment,

	"example":         types.FunctionExample,
	"exemplo":         types.FunctionExample,
	"exemplo_pratico": types.FunctionExample,
	"explanation":     types.FunctionExample,
	"demo":            types.FunctionExample,

	"definition": types.FunctionDefinition,
	"definicao":  types.FunctionDefinition,

	"statistic":   types.FunctionStatistic,
	"statistics":  types.FunctionStatistic,
	"estatistica": types.FunctionStatistic,
	"data":        types.FunctionStatistic,

	"transition": types.FunctionTransition,
	"transicao":  types.FunctionTransition,
	"noise":      types.FunctionTransition,
	"ruido":      types.FunctionTransition,
	"aside":      types.FunctionTransition,

	"conclusion": types.FunctionConclusion,
	"conclusao":  types.FunctionConclusion,
	"summary":    types.FunctionConclusion,
	"recap":      types.FunctionConclusion,
	"closing":    types.FunctionConclusion,

	"cta":            types.FunctionCTA,
	"call-to-action": types.FunctionCTA,
	"call_to_action": types.FunctionCTA,

	"guarantee": types.FunctionGuarantee,
	"garantia":  types.FunctionGuarantee,

	"proof":       types.FunctionProof,
	"prova":       types.FunctionProof,
	"testimonial": types.FunctionProof,

	"offer":  types.FunctionOffer,
	"oferta": types.FunctionOffer,
}

// MapFunction resolves a raw advisory function label to the closed
// vocabulary. Compound labels like "hook/intro" resolve by their first
// part; anything unrecognized defaults to development.
func MapFunction(raw string) types.SegmentFunction {
	first := raw
	if i := strings.IndexByte(first, '/'); i >= 0 {
		first = first[:i]
	}
	first = strings.ToLower(strings.TrimSpace(first))
	if fn, ok := functionSynonyms[first]; ok {
		return fn
	}
	return types.FunctionDevelopment
}
