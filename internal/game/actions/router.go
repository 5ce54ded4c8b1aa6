package actions

import (
	"context"
	"fmt"

	apperrors "github.com/tianji-games/ascension/internal/platform/errors"
)

// Router dispatches named actions to middleware-wrapped handlers.
type Router struct {
	routes map[string]Handler
}

// NewRouter registers every game action. All routes log, retry one storage
// conflict and convert user-correctable failures into messages; routes other
// than "begin" additionally require an existing player.
func NewRouter(svc *Service) *Router {
	r := &Router{routes: make(map[string]Handler)}
	base := func(name string) []Middleware {
		return []Middleware{LogAction(name), RetryConflict(), ConvertUserErrors()}
	}
	player := func(name string) []Middleware {
		return append(base(name), RequirePlayer(svc.store))
	}

	r.register("begin", base("begin"), HandlerFunc(func(ctx context.Context, req Request) ([]Message, error) {
		return svc.Begin(ctx, req.UserID, req.Arg("name"))
	}))
	r.register("profile", player("profile"), HandlerFunc(func(ctx context.Context, req Request) ([]Message, error) {
		return svc.Profile(ctx, req.UserID)
	}))
	r.register("rename", player("rename"), HandlerFunc(func(ctx context.Context, req Request) ([]Message, error) {
		return svc.Rename(ctx, req.UserID, req.Arg("name"))
	}))
	r.register("checkin", player("checkin"), HandlerFunc(func(ctx context.Context, req Request) ([]Message, error) {
		return svc.CheckIn(ctx, req.UserID)
	}))
	r.register("reroll-root", player("reroll-root"), HandlerFunc(func(ctx context.Context, req Request) ([]Message, error) {
		return svc.RerollRoot(ctx, req.UserID)
	}))
	r.register("inventory", player("inventory"), HandlerFunc(func(ctx context.Context, req Request) ([]Message, error) {
		return svc.Inventory(ctx, req.UserID)
	}))
	r.register("use", player("use"), HandlerFunc(func(ctx context.Context, req Request) ([]Message, error) {
		return svc.UseItem(ctx, req.UserID, req.Arg("item"))
	}))
	r.register("equip", player("equip"), HandlerFunc(func(ctx context.Context, req Request) ([]Message, error) {
		return svc.Equip(ctx, req.UserID, req.Arg("item"))
	}))
	r.register("unequip", player("unequip"), HandlerFunc(func(ctx context.Context, req Request) ([]Message, error) {
		return svc.Unequip(ctx, req.UserID, req.Arg("slot"))
	}))
	r.register("meditate", player("meditate"), HandlerFunc(func(ctx context.Context, req Request) ([]Message, error) {
		return svc.MeditateBegin(ctx, req.UserID)
	}))
	r.register("awaken", player("awaken"), HandlerFunc(func(ctx context.Context, req Request) ([]Message, error) {
		return svc.MeditateEnd(ctx, req.UserID)
	}))
	r.register("breakthrough", player("breakthrough"), HandlerFunc(func(ctx context.Context, req Request) ([]Message, error) {
		return svc.Breakthrough(ctx, req.UserID)
	}))
	r.register("hunt", player("hunt"), HandlerFunc(func(ctx context.Context, req Request) ([]Message, error) {
		return svc.Hunt(ctx, req.UserID)
	}))
	r.register("spar", player("spar"), HandlerFunc(func(ctx context.Context, req Request) ([]Message, error) {
		return svc.Spar(ctx, req.UserID, req.Arg("opponent"))
	}))
	r.register("dungeon", player("dungeon"), HandlerFunc(func(ctx context.Context, req Request) ([]Message, error) {
		return svc.ExploreDungeon(ctx, req.UserID)
	}))
	r.register("shop", player("shop"), HandlerFunc(func(ctx context.Context, req Request) ([]Message, error) {
		return svc.ShopView(ctx, req.UserID)
	}))
	r.register("buy", player("buy"), HandlerFunc(func(ctx context.Context, req Request) ([]Message, error) {
		qty, err := req.IntArg("qty", 1)
		if err != nil {
			return nil, err
		}
		return svc.ShopBuy(ctx, req.UserID, req.Arg("item"), qty)
	}))
	r.register("deposit", player("deposit"), HandlerFunc(func(ctx context.Context, req Request) ([]Message, error) {
		amount, err := req.IntArg("amount", 0)
		if err != nil {
			return nil, err
		}
		return svc.BankDeposit(ctx, req.UserID, req.Arg("kind"), amount)
	}))
	r.register("withdraw", player("withdraw"), HandlerFunc(func(ctx context.Context, req Request) ([]Message, error) {
		return svc.BankWithdraw(ctx, req.UserID, req.Arg("deposit"))
	}))
	r.register("bank", player("bank"), HandlerFunc(func(ctx context.Context, req Request) ([]Message, error) {
		return svc.BankList(ctx, req.UserID)
	}))
	r.register("transfer", player("transfer"), HandlerFunc(func(ctx context.Context, req Request) ([]Message, error) {
		amount, err := req.IntArg("amount", 0)
		if err != nil {
			return nil, err
		}
		return svc.Transfer(ctx, req.UserID, req.Arg("to"), amount)
	}))
	r.register("boss-spawn", player("boss-spawn"), HandlerFunc(func(ctx context.Context, req Request) ([]Message, error) {
		return svc.BossSpawn(ctx, req.UserID)
	}))
	r.register("boss-attack", player("boss-attack"), HandlerFunc(func(ctx context.Context, req Request) ([]Message, error) {
		return svc.BossAttack(ctx, req.UserID)
	}))
	r.register("boss", player("boss"), HandlerFunc(func(ctx context.Context, req Request) ([]Message, error) {
		return svc.BossStatus(ctx, req.UserID)
	}))
	r.register("rankings", base("rankings"), HandlerFunc(func(ctx context.Context, req Request) ([]Message, error) {
		return svc.Rankings(ctx)
	}))
	return r
}

func (r *Router) register(name string, mw []Middleware, h Handler) {
	r.routes[name] = Chain(h, mw...)
}

// Actions lists the registered action names.
func (r *Router) Actions() []string {
	names := make([]string, 0, len(r.routes))
	for name := range r.routes {
		names = append(names, name)
	}
	return names
}

// Dispatch runs one named action.
func (r *Router) Dispatch(ctx context.Context, name string, req Request) ([]Message, error) {
	h, ok := r.routes[name]
	if !ok {
		return nil, apperrors.WithMetadata(apperrors.CodeNotFound,
			fmt.Sprintf("unknown action %q", name), map[string]string{"action": name})
	}
	return h.Handle(ctx, req)
}
