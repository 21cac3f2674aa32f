package sable

import "io"

// Interpreter ties the pipeline together: lex, parse, type-check, evaluate.
type Interpreter struct {
	opts []EvaluatorOption
}

func NewInterpreter(opts ...EvaluatorOption) *Interpreter {
	return &Interpreter{opts: opts}
}

// Run interprets a source file to completion.
func (i *Interpreter) Run(filename string) error {
	lexer, err := NewLexer(filename)
	if err != nil {
		return err
	}

	return i.run(NewParser(lexer))
}

// RunFromReader interprets source read from an arbitrary reader.
func (i *Interpreter) RunFromReader(reader io.Reader) error {
	lexer := NewLexerFromReader(reader)
	return i.run(NewParser(lexer))
}

// Check runs the front half of the pipeline only, reporting the first
// diagnostic without executing anything.
func (i *Interpreter) Check(filename string) (*Program, error) {
	lexer, err := NewLexer(filename)
	if err != nil {
		return nil, err
	}

	return i.analyze(NewParser(lexer))
}

// CheckFromReader type-checks source from a reader without executing it.
func (i *Interpreter) CheckFromReader(reader io.Reader) error {
	lexer := NewLexerFromReader(reader)
	_, err := i.analyze(NewParser(lexer))
	return err
}

func (i *Interpreter) run(p *Parser) error {
	prog, err := i.analyze(p)
	if err != nil {
		return err
	}

	return NewEvaluator(prog, i.opts...).Run()
}

func (i *Interpreter) analyze(p *Parser) (*Program, error) {
	analyzer := NewContextAnalyser(p)

	prog, err := analyzer.Do()
	if err != nil {
		return nil, err
	}

	if err := checkEntrypoint(prog); err != nil {
		return nil, err
	}

	return prog, nil
}

// checkEntrypoint enforces the entry contract: a main function taking no
// parameters and returning unit.
func checkEntrypoint(prog *Program) error {
	main, declared := prog.Funcs["main"]
	if !declared {
		return &TypeError{Msg: "no 'main' function declared", Loc: prog.Module.Loc}
	}

	sig := prog.FuncTypes["main"]
	if len(sig.Params) != 0 {
		return &TypeError{Msg: "'main' must take no parameters", Loc: main.Loc}
	}

	if !isUnit(sig.Return) {
		return &TypeError{Msg: "'main' must return unit", Loc: main.Loc}
	}

	return nil
}
