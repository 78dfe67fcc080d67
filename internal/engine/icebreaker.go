package engine

import "math/rand/v2"

// DefaultIcebreakers 기본 아이스브레이커 질문 목록
var DefaultIcebreakers = []string{
	"What brought you to this event today?",
	"What is a project you are excited about right now?",
	"Which problem in your industry would you solve first if you could?",
	"What is the best piece of advice you received this year?",
	"Who would be the ideal person for you to meet here, and why?",
	"What is something you learned recently that surprised you?",
	"How did you end up in your current role?",
	"What kind of collaboration are you looking for right now?",
	"Which tool or technology changed the way you work?",
	"What would make this event a success for you?",
}

// IcebreakerDeck 매치마다 질문 하나를 무작위로 고름
type IcebreakerDeck struct {
	prompts []string
	intn    func(n int) int
}

// NewIcebreakerDeck 빈 목록이면 DefaultIcebreakers 사용
func NewIcebreakerDeck(prompts []string) *IcebreakerDeck {
	if len(prompts) == 0 {
		prompts = DefaultIcebreakers
	}
	return &IcebreakerDeck{
		prompts: append([]string(nil), prompts...),
		intn:    rand.IntN,
	}
}

// Pick 균등 분포로 질문 선택
func (d *IcebreakerDeck) Pick() string {
	if d == nil || len(d.prompts) == 0 {
		return ""
	}
	return d.prompts[d.intn(len(d.prompts))]
}
