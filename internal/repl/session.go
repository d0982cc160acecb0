// Package repl runs the interactive next-word prediction loop
package repl

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"wordpred/internal/service"

	"go.uber.org/zap"
)

// Session reads phrases from in, prints predictions to out and lets the
// user extend the phrase one chosen word at a time.
type Session struct {
	predictor *service.Predictor
	strategy  service.Strategy
	limit     int
	in        *bufio.Scanner
	out       io.Writer
	logger    *zap.Logger
}

// NewSession creates a session. An empty strategy uses the predictor default
func NewSession(predictor *service.Predictor, strategy service.Strategy, limit int, in io.Reader, out io.Writer, logger *zap.Logger) *Session {
	return &Session{
		predictor: predictor,
		strategy:  strategy,
		limit:     limit,
		in:        bufio.NewScanner(in),
		out:       out,
		logger:    logger,
	}
}

// Run loops until the user declines to continue or input ends.
// End of input is not an error.
func (s *Session) Run(ctx context.Context) error {
	fmt.Fprintln(s.out, "Enter your line:")
	line, err := s.readLine()
	if err != nil {
		return ignoreEOF(err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		tokens, err := s.readPhrase(line)
		if err != nil {
			return ignoreEOF(err)
		}
		phrase := strings.Join(tokens, " ")

		fmt.Fprintf(s.out, "Your line is: %s\n", capitalize(phrase))
		fmt.Fprintln(s.out, "Predicting next word..")
		if err := s.predict(phrase); err != nil {
			return err
		}

		fmt.Fprintln(s.out, "Enter your choice of word:")
		choice, err := s.readLine()
		if err != nil {
			return ignoreEOF(err)
		}
		if words := s.predictor.PhraseTokens(choice); len(words) > 0 {
			phrase = phrase + " " + strings.Join(words, " ")
		}

		more, err := s.askContinue()
		if err != nil {
			return ignoreEOF(err)
		}
		if !more {
			return nil
		}
		line = phrase
	}
}

// readPhrase re-prompts until the line has at least one usable word
func (s *Session) readPhrase(line string) ([]string, error) {
	for {
		tokens := s.predictor.PhraseTokens(line)
		if len(tokens) > 0 && !(len(tokens) == 1 && tokens[0] == "null") {
			return tokens, nil
		}
		fmt.Fprintln(s.out, "Input can't be empty, null or contain special characters only!")
		fmt.Fprintln(s.out, "Enter the input here again:")

		var err error
		if line, err = s.readLine(); err != nil {
			return nil, err
		}
	}
}

func (s *Session) predict(phrase string) error {
	predictions, err := s.predictor.Predict(phrase, s.strategy, s.limit)
	switch {
	case errors.Is(err, service.ErrNoPrediction):
		fmt.Fprintln(s.out, "No word found")
		return nil
	case err != nil:
		s.logger.Error("Prediction failed", zap.String("phrase", phrase), zap.Error(err))
		return err
	}
	return service.RenderPredictions(s.out, predictions)
}

func (s *Session) askContinue() (bool, error) {
	fmt.Fprintln(s.out, "Do you wish to continue? (Yes/No)")
	for {
		answer, err := s.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(answer)) {
		case "yes", "y":
			return true, nil
		case "no", "n":
			return false, nil
		}
		fmt.Fprintln(s.out, "Invalid choice! Please choose again!")
	}
}

func (s *Session) readLine() (string, error) {
	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.in.Text(), nil
}

func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
