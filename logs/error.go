package logs

import (
	"context"
	"errors"
	"fmt"
)

func WrapProgram(ctx context.Context, err error) error {
	v := ctx.Value(ProgramKey)
	if v == nil {
		return err
	}
	err = errors.Join(err, fmt.Errorf("program: %s", v.(string)))
	return err
}
