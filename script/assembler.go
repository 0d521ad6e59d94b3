// Package script compiles condition-script source into opaque, hash-rooted
// predicates the ledger evaluates at consumption time.
package script

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/heirloom-labs/heirloom/errors"
	"github.com/heirloom-labs/heirloom/interfaces"
	"golang.org/x/crypto/blake2b"
)

type opCode uint8

const (
	opPushLit opCode = iota
	opPushInput
	opPushHeight
	opPushConsumerPrefix
	opPushConsumerSuffix
	opGte
	opLte
	opEq
	opAnd
	opOr
	opAssert
)

type instruction struct {
	code opCode
	arg  uint64
}

// CompiledScript is an executable condition script together with the root
// hash note recipients reference it by.
type CompiledScript struct {
	instructions []instruction
	root         [32]byte
}

// Compile assembles condition-script source. Lines hold one instruction
// each; '#' starts a comment. The root commits to the canonical instruction
// encoding, so equal programs share a root regardless of formatting.
func Compile(source string) (*CompiledScript, error) {
	var instructions []instruction
	for lineNo, line := range strings.Split(source, "\n") {
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = line[:idx]
		}
		tok := strings.TrimSpace(line)
		if tok == "" {
			continue
		}
		ins, err := parseInstruction(tok)
		if err != nil {
			return nil, errors.NewError(errors.ErrCodeScriptCompile,
				fmt.Sprintf("line %d: %v", lineNo+1, err))
		}
		instructions = append(instructions, ins)
	}
	if len(instructions) == 0 {
		return nil, errors.NewError(errors.ErrCodeScriptCompile, "script has no instructions")
	}
	if instructions[len(instructions)-1].code != opAssert {
		return nil, errors.NewError(errors.ErrCodeScriptCompile, "script must end with assert")
	}

	h, _ := blake2b.New256(nil)
	for _, ins := range instructions {
		var buf [9]byte
		buf[0] = byte(ins.code)
		for i := 0; i < 8; i++ {
			buf[1+i] = byte(ins.arg >> (56 - 8*i))
		}
		h.Write(buf[:])
	}

	cs := &CompiledScript{instructions: instructions}
	copy(cs.root[:], h.Sum(nil))
	return cs, nil
}

func parseInstruction(tok string) (instruction, error) {
	switch tok {
	case "push.ctx.height":
		return instruction{code: opPushHeight}, nil
	case "push.ctx.prefix":
		return instruction{code: opPushConsumerPrefix}, nil
	case "push.ctx.suffix":
		return instruction{code: opPushConsumerSuffix}, nil
	case "gte":
		return instruction{code: opGte}, nil
	case "lte":
		return instruction{code: opLte}, nil
	case "eq":
		return instruction{code: opEq}, nil
	case "and":
		return instruction{code: opAnd}, nil
	case "or":
		return instruction{code: opOr}, nil
	case "assert":
		return instruction{code: opAssert}, nil
	}
	if arg, ok := strings.CutPrefix(tok, "push.input."); ok {
		idx, err := strconv.ParseUint(arg, 10, 32)
		if err != nil {
			return instruction{}, fmt.Errorf("bad input index %q", arg)
		}
		return instruction{code: opPushInput, arg: idx}, nil
	}
	if arg, ok := strings.CutPrefix(tok, "push."); ok {
		lit, err := strconv.ParseUint(arg, 10, 64)
		if err != nil {
			return instruction{}, fmt.Errorf("unknown instruction %q", tok)
		}
		return instruction{code: opPushLit, arg: lit}, nil
	}
	return instruction{}, fmt.Errorf("unknown instruction %q", tok)
}

// Root returns the script commitment.
func (cs *CompiledScript) Root() [32]byte {
	return cs.root
}

// Evaluate runs the script against a consumption attempt. Any fault
// (input index out of range, stack underflow) evaluates to rejection; the
// ledger never distinguishes a faulty script from a false one.
func (cs *CompiledScript) Evaluate(ctx interfaces.EvalContext) bool {
	stack := make([]uint64, 0, 8)
	push := func(v uint64) { stack = append(stack, v) }
	pop2 := func() (uint64, uint64, bool) {
		if len(stack) < 2 {
			return 0, 0, false
		}
		a, b := stack[len(stack)-2], stack[len(stack)-1]
		stack = stack[:len(stack)-2]
		return a, b, true
	}
	boolFelt := func(v bool) uint64 {
		if v {
			return 1
		}
		return 0
	}

	for _, ins := range cs.instructions {
		switch ins.code {
		case opPushLit:
			push(ins.arg)
		case opPushInput:
			if ins.arg >= uint64(len(ctx.Inputs)) {
				return false
			}
			push(ctx.Inputs[ins.arg].Uint64())
		case opPushHeight:
			push(ctx.BlockHeight)
		case opPushConsumerPrefix:
			push(ctx.Consumer.Prefix().Uint64())
		case opPushConsumerSuffix:
			push(ctx.Consumer.Suffix().Uint64())
		case opGte:
			a, b, ok := pop2()
			if !ok {
				return false
			}
			push(boolFelt(a >= b))
		case opLte:
			a, b, ok := pop2()
			if !ok {
				return false
			}
			push(boolFelt(a <= b))
		case opEq:
			a, b, ok := pop2()
			if !ok {
				return false
			}
			push(boolFelt(a == b))
		case opAnd:
			a, b, ok := pop2()
			if !ok {
				return false
			}
			push(boolFelt(a != 0 && b != 0))
		case opOr:
			a, b, ok := pop2()
			if !ok {
				return false
			}
			push(boolFelt(a != 0 || b != 0))
		case opAssert:
			if len(stack) == 0 {
				return false
			}
			return stack[len(stack)-1] != 0
		}
	}
	return false
}

var _ interfaces.Predicate = (*CompiledScript)(nil)
