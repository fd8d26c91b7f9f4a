package profile

import (
	"context"
	"errors"

	"tableflip.dev/timeline/pkg/app"
	"tableflip.dev/timeline/pkg/printers"
)

// Profile shows and edits the user identity.
type Profile struct {
	Service *app.Service
	ShowID  bool

	Printer *printers.PrettyPrint
}

func (n *Profile) check() error {
	if n.Service == nil {
		return errors.New("can not load profile, no service")
	}
	return nil
}

func (n *Profile) Show(ctx context.Context) error {
	if err := n.check(); err != nil {
		return err
	}
	pp := n.Printer
	if pp == nil {
		pp = &printers.PrettyPrint{ShowID: n.ShowID}
	}
	pp.Profile(n.Service.Profiles.Profile(), n.Service.Setup.Done(ctx))
	return nil
}

func (n *Profile) Set(ctx context.Context, name, username string) error {
	if err := n.check(); err != nil {
		return err
	}
	if err := n.Service.SetIdentity(ctx, name, username); err != nil {
		return err
	}
	return n.Show(ctx)
}

// Avatar copies path into the image library; an empty path clears it.
func (n *Profile) Avatar(ctx context.Context, path string) error {
	if err := n.check(); err != nil {
		return err
	}
	if err := n.Service.SetAvatar(ctx, path); err != nil {
		return err
	}
	return n.Show(ctx)
}
