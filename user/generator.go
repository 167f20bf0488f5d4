package user

import (
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"

	"github.com/kbukum/kafkasample/validation"
)

var firstNames = []string{
	"Ana", "Beatriz", "Bruno", "Camila", "Carlos", "Daniela", "Eduardo", "Fernanda",
	"Gabriel", "Helena", "Igor", "Juliana", "Lucas", "Mariana", "Mateus", "Natália",
	"Otávio", "Paula", "Rafael", "Sofia", "Thiago", "Vitória",
}

var lastNames = []string{
	"Almeida", "Barbosa", "Cardoso", "Costa", "Ferreira", "Gomes", "Lima", "Martins",
	"Oliveira", "Pereira", "Ribeiro", "Rodrigues", "Santos", "Silva", "Souza",
}

// Generator produces synthetic users with valid CPF ids and Brazilian names.
// It is safe for concurrent use.
type Generator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator creates a generator. The same seed yields the same users.
func NewGenerator(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Next returns one user.
func (g *Generator) Next() User {
	g.mu.Lock()
	defer g.mu.Unlock()
	return User{ID: g.cpf(), Name: g.name()}
}

// NextBatch returns n users.
func (g *Generator) NextBatch(n int) []User {
	users := make([]User, n)
	for i := range users {
		users[i] = g.Next()
	}
	return users
}

func (g *Generator) cpf() string {
	for {
		digits := make([]int, 9, 11)
		for i := range digits {
			digits[i] = g.rng.IntN(10)
		}
		digits = append(digits, validation.CPFCheckDigit(digits))
		digits = append(digits, validation.CPFCheckDigit(digits))

		var b strings.Builder
		for _, d := range digits {
			b.WriteString(strconv.Itoa(d))
		}
		if id := b.String(); validation.IsCPF(id) {
			return id
		}
	}
}

func (g *Generator) name() string {
	first := firstNames[g.rng.IntN(len(firstNames))]
	last := lastNames[g.rng.IntN(len(lastNames))]
	if g.rng.IntN(2) == 0 {
		return first + " " + last
	}
	middle := lastNames[g.rng.IntN(len(lastNames))]
	return first + " " + middle + " " + last
}
