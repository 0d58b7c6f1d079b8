package llm

import (
	"context"
	"math/rand"

	"github.com/tradecortex/tradecortex/config"
)

// Pool holds the debate-stage clients. The research debate coordinator picks
// one per researcher turn when model randomization is enabled; selection is
// uniform random and the chosen model/provider is recorded on the debate
// message. The risk debate does not use the pool.
type Pool struct {
	clients []Client
}

// NewPool wraps pre-built clients.
func NewPool(clients ...Client) *Pool {
	return &Pool{clients: clients}
}

// NewPoolFromConfig builds one client per configured debate model. With no
// debate models configured, the pool holds a single default client.
func NewPoolFromConfig(ctx context.Context, cfg config.LLMConfig, models []string, observer Observer) (*Pool, error) {
	if len(models) == 0 {
		client, err := New(ctx, cfg, observer)
		if err != nil {
			return nil, err
		}
		return NewPool(client), nil
	}

	pool := &Pool{}
	for _, m := range models {
		client, err := NewForModel(ctx, cfg, m, observer)
		if err != nil {
			return nil, err
		}
		pool.clients = append(pool.clients, client)
	}
	return pool, nil
}

// Pick returns a uniformly random client. With one client the choice is
// deterministic.
func (p *Pool) Pick() Client {
	if len(p.clients) == 1 {
		return p.clients[0]
	}
	return p.clients[rand.Intn(len(p.clients))]
}

// Size returns the number of pooled clients.
func (p *Pool) Size() int { return len(p.clients) }
