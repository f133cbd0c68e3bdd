package escrow

import (
	"context"
	"testing"

	"github.com/iov-one/custody/errors"
	"github.com/iov-one/custody/weavetest"
	. "github.com/smartystreets/goconvey/convey"
)

func TestOwnerScenario(t *testing.T) {
	Convey("Given an escrow initialized by A over the custody account T", t, func() {
		l := newLedger(t, 1000)
		ctrl := NewController(l.bank)
		ctx := context.Background()
		a := l.auth(l.owner)
		b := l.auth(weavetest.NewCondition())

		e, err := ctrl.Initialize(ctx, l.db, a, l.id, l.custody)
		So(err, ShouldBeNil)
		So(e.Balance, ShouldEqual, 0)
		So(e.Owner, ShouldResemble, l.owner.Address())
		So(e.TokenAccount, ShouldResemble, l.custody)

		Convey("A deposits 100", func() {
			e, err := ctrl.Deposit(ctx, l.db, a, l.id, l.wallet, l.custody, 100)
			So(err, ShouldBeNil)
			So(e.Balance, ShouldEqual, 100)

			Convey("B cannot deposit 50", func() {
				_, err := ctrl.Deposit(ctx, l.db, b, l.id, l.wallet, l.custody, 50)
				So(errors.ErrUnauthorized.Is(err), ShouldBeTrue)
				So(balanceOf(ctrl, l), ShouldEqual, 100)

				Convey("A cannot withdraw 150", func() {
					_, err := ctrl.Withdraw(ctx, l.db, a, l.id, l.custody, l.wallet, 150)
					So(ErrInsufficientFunds.Is(err), ShouldBeTrue)
					So(balanceOf(ctrl, l), ShouldEqual, 100)

					Convey("A withdraws 100", func() {
						e, err := ctrl.Withdraw(ctx, l.db, a, l.id, l.custody, l.wallet, 100)
						So(err, ShouldBeNil)
						So(e.Balance, ShouldEqual, 0)
						So(l.balance(t, l.custody), ShouldEqual, 0)
						So(l.balance(t, l.wallet), ShouldEqual, 1000)
					})
				})
			})

			Convey("B cannot withdraw", func() {
				_, err := ctrl.Withdraw(ctx, l.db, b, l.id, l.custody, l.wallet, 10)
				So(errors.ErrUnauthorized.Is(err), ShouldBeTrue)
				So(balanceOf(ctrl, l), ShouldEqual, 100)
			})
		})
	})
}

func balanceOf(ctrl Controller, l *ledger) uint64 {
	e, err := ctrl.Escrow(l.db, l.id)
	if err != nil {
		return 0
	}
	return e.Balance
}
