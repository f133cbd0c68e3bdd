package x

import (
	"context"
	"testing"

	"github.com/iov-one/custody"
	"github.com/iov-one/custody/weavetest"
	"github.com/iov-one/custody/weavetest/assert"
)

func TestAuth(t *testing.T) {
	a := weavetest.NewCondition()
	b := weavetest.NewCondition()
	c := weavetest.NewCondition()

	ctxAuth := &weavetest.CtxAuth{Key: "signers"}
	otherAuth := &weavetest.CtxAuth{Key: "other"}

	cases := map[string]struct {
		ctx          custody.Context
		auth         Authenticator
		mainSigner   custody.Condition
		wantInCtx    custody.Condition
		wantNotInCtx custody.Condition
		wantAll      []custody.Condition
	}{
		"empty context": {
			ctx:          context.Background(),
			auth:         &weavetest.Auth{},
			wantNotInCtx: b,
		},
		"single signer": {
			ctx:          context.Background(),
			auth:         &weavetest.Auth{Signer: a},
			mainSigner:   a,
			wantInCtx:    a,
			wantNotInCtx: b,
			wantAll:      []custody.Condition{a},
		},
		"chained authenticators keep order": {
			ctx: context.Background(),
			auth: ChainAuth(
				&weavetest.Auth{Signer: b},
				&weavetest.Auth{Signer: a}),
			mainSigner:   b,
			wantInCtx:    a,
			wantNotInCtx: c,
			wantAll:      []custody.Condition{b, a},
		},
		"context authenticator": {
			ctx:          ctxAuth.SetConditions(context.Background(), a, b),
			auth:         ctxAuth,
			mainSigner:   a,
			wantInCtx:    b,
			wantNotInCtx: c,
			wantAll:      []custody.Condition{a, b},
		},
		"context authenticator with another key": {
			ctx:          ctxAuth.SetConditions(context.Background(), a, b),
			auth:         otherAuth,
			wantNotInCtx: a,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			assert.Equal(t, tc.mainSigner, MainSigner(tc.ctx, tc.auth))
			if tc.wantInCtx != nil && !tc.auth.HasAddress(tc.ctx, tc.wantInCtx.Address()) {
				t.Fatal("condition not found in context")
			}
			if tc.auth.HasAddress(tc.ctx, tc.wantNotInCtx.Address()) {
				t.Fatal("unexpected condition found in context")
			}
			assert.Equal(t, len(tc.wantAll), len(tc.auth.GetConditions(tc.ctx)))

			want := make([]custody.Address, len(tc.wantAll))
			for i, c := range tc.wantAll {
				want[i] = c.Address()
			}
			assert.Equal(t, want, GetAddresses(tc.ctx, tc.auth))
			assert.Equal(t, true, HasAllAddresses(tc.ctx, tc.auth, want))
			assert.Equal(t, false, HasAllAddresses(tc.ctx, tc.auth, append(want, tc.wantNotInCtx.Address())))
		})
	}
}
