package main

import (
	"fmt"
	"io"
	"strconv"

	"atomicgo.dev/keyboard"
	"atomicgo.dev/keyboard/keys"
)

// keyboardInput reads program input from key presses on a raw terminal. A
// character read takes a single key without waiting for Enter; an integer
// read collects digits until Enter. Ctrl+C and Ctrl+D end the input.
type keyboardInput struct {
	echo   io.Writer
	listen func(onKeyPress func(key keys.Key) (stop bool, err error)) error
}

func newKeyboardInput(echo io.Writer) *keyboardInput {
	return &keyboardInput{echo: echo, listen: keyboard.Listen}
}

func (k *keyboardInput) ReadChar() (int64, error) {
	var value int64
	var ok bool
	err := k.listen(func(key keys.Key) (bool, error) {
		switch key.Code {
		case keys.CtrlC, keys.CtrlD:
			return true, io.EOF
		case keys.Enter:
			value = '\n'
		case keys.Space:
			value = ' '
		case keys.Tab:
			value = '\t'
		case keys.RuneKey:
			if len(key.Runes) == 0 {
				return false, nil
			}
			value = int64(key.Runes[0])
		default:
			return false, nil
		}
		ok = true
		return true, nil
	})
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, io.EOF
	}
	if value == '\n' {
		fmt.Fprint(k.echo, "\r\n")
	} else {
		fmt.Fprint(k.echo, string(rune(value)))
	}
	return value, nil
}

func (k *keyboardInput) ReadInt() (int64, error) {
	var digits []byte
	err := k.listen(func(key keys.Key) (bool, error) {
		switch key.Code {
		case keys.CtrlC, keys.CtrlD:
			return true, io.EOF
		case keys.Enter:
			if len(digits) == 0 || (len(digits) == 1 && digits[0] == '-') {
				return false, nil
			}
			fmt.Fprint(k.echo, "\r\n")
			return true, nil
		case keys.Backspace:
			if len(digits) > 0 {
				digits = digits[:len(digits)-1]
				fmt.Fprint(k.echo, "\b \b")
			}
		case keys.RuneKey:
			for _, r := range key.Runes {
				if (r >= '0' && r <= '9') || (r == '-' && len(digits) == 0) {
					digits = append(digits, byte(r))
					fmt.Fprint(k.echo, string(r))
				}
			}
		}
		return false, nil
	})
	if err != nil {
		return 0, err
	}
	if len(digits) == 0 {
		return 0, io.EOF
	}
	return strconv.ParseInt(string(digits), 10, 64)
}
