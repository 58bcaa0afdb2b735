package rag_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/plantdoc/PlantRAG/internal/config"
	"github.com/plantdoc/PlantRAG/internal/data/redisStore"
	"github.com/plantdoc/PlantRAG/internal/data/store"
	"github.com/plantdoc/PlantRAG/internal/rag"
	"github.com/plantdoc/PlantRAG/internal/rag/embedding"
	"github.com/plantdoc/PlantRAG/internal/rag/llm"
	"github.com/plantdoc/PlantRAG/internal/rag/prompt"
	"github.com/plantdoc/PlantRAG/internal/rag/vectorDB"
)

func testCtx() context.Context {
	return context.WithValue(context.Background(), config.TRACE_ID_KEY, "test-trace")
}

func TestAnswer_Scenarios(t *testing.T) {
	tests := []struct {
		name           string
		failOpen       bool
		setupMocks     func(e *MockEmbedder, v *MockVectorDB, l *MockLLM)
		expectedAnswer string
		expectedErr    error
	}{
		{
			name:     "Success_Full_Flow",
			failOpen: true,
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				l.OnGenerate = func(ctx context.Context, p prompt.Payload) (string, error) {
					return "final answer", nil
				}
			},
			expectedAnswer: "final answer",
		},
		{
			name:     "Success_Semantic_Cache_Hit",
			failOpen: true,
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				v.OnGetCachedAnswer = func(ctx context.Context, emb []float32) (string, bool, error) {
					return "cached answer", true, nil
				}
				l.OnGenerate = func(ctx context.Context, p prompt.Payload) (string, error) {
					t.Error("LLM must not be called on a cache hit")
					return "", nil
				}
			},
			expectedAnswer: "cached answer",
		},
		{
			name:     "Embedding_Failure_FailClosed",
			failOpen: false,
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				e.OnGetEmbedding = func(ctx context.Context, text string) ([]float32, error) {
					return nil, embedding.ErrEmbedding
				}
			},
			expectedErr: embedding.ErrEmbedding,
		},
		{
			name:     "Embedding_Failure_FailOpen_StillAnswers",
			failOpen: true,
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				e.OnGetEmbedding = func(ctx context.Context, text string) ([]float32, error) {
					return nil, embedding.ErrEmbedding
				}
				l.OnGenerate = func(ctx context.Context, p prompt.Payload) (string, error) {
					if !strings.Contains(p.System, "Error retrieving context") {
						t.Errorf("expected diagnostic placeholder context, got %q", p.System)
					}
					return "degraded answer", nil
				}
			},
			expectedAnswer: "degraded answer",
		},
		{
			name:     "Search_Failure_FailClosed",
			failOpen: false,
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				v.OnSearch = func(ctx context.Context, vec []float32, k int, category string) ([]string, []float32, error) {
					return nil, nil, vectorDB.ErrIndex
				}
			},
			expectedErr: vectorDB.ErrIndex,
		},
		{
			name:     "Generation_Failure",
			failOpen: true,
			setupMocks: func(e *MockEmbedder, v *MockVectorDB, l *MockLLM) {
				l.OnGenerate = func(ctx context.Context, p prompt.Payload) (string, error) {
					return "", llm.ErrGeneration
				}
			},
			expectedErr: llm.ErrGeneration,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mEmbed := &MockEmbedder{}
			mVec := &MockVectorDB{}
			mLLM := &MockLLM{}
			tt.setupMocks(mEmbed, mVec, mLLM)

			s := rag.NewService(mVec, mLLM, mEmbed, nil, tt.failOpen)

			answer, err := s.Answer(testCtx(), rag.AnswerRequest{
				Category: "blight",
				Prompt:   "test question",
			})

			if tt.expectedErr != nil {
				if !errors.Is(err, tt.expectedErr) {
					t.Fatalf("got err %v, want %v", err, tt.expectedErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if answer != tt.expectedAnswer {
				t.Errorf("answer = %q, want %q", answer, tt.expectedAnswer)
			}
		})
	}
}

func TestAnswer_CategoryAndKReachTheIndex(t *testing.T) {
	mVec := &MockVectorDB{
		OnSearch: func(ctx context.Context, vec []float32, k int, category string) ([]string, []float32, error) {
			if category != "blight" {
				t.Errorf("category = %q, want blight", category)
			}
			if k != config.DefaultTopK {
				t.Errorf("k = %d, want default %d", k, config.DefaultTopK)
			}
			return []string{"chunk"}, []float32{0.8}, nil
		},
	}
	s := rag.NewService(mVec, &MockLLM{}, &MockEmbedder{}, nil, true)

	if _, err := s.Answer(testCtx(), rag.AnswerRequest{Category: "blight", Prompt: "q"}); err != nil {
		t.Fatal(err)
	}
}

func TestAnswer_EndToEndScenario(t *testing.T) {
	const chunk = "Blight is a fungal disease."

	mVec := &MockVectorDB{
		OnSearch: func(ctx context.Context, vec []float32, k int, category string) ([]string, []float32, error) {
			return []string{chunk}, []float32{0.95}, nil
		},
	}
	var captured prompt.Payload
	mLLM := &MockLLM{
		OnGenerate: func(ctx context.Context, p prompt.Payload) (string, error) {
			captured = p
			return "Blight is caused by fungi and thrives in wet conditions.", nil
		},
	}
	s := rag.NewService(mVec, mLLM, &MockEmbedder{}, nil, true)

	answer, err := s.Answer(testCtx(), rag.AnswerRequest{
		Category: "blight",
		Prompt:   "What is blight?",
		History:  []string{},
	})
	if err != nil {
		t.Fatal(err)
	}
	if answer == "" {
		t.Error("expected non-empty answer")
	}
	if !strings.Contains(captured.System, chunk) {
		t.Errorf("system instruction missing retrieved context: %q", captured.System)
	}
	//history was empty, so the only turn is the current prompt
	if len(captured.Turns) != 1 || captured.Turns[0].Text != "What is blight?" {
		t.Errorf("unexpected turns: %+v", captured.Turns)
	}
}

func newMiniredisCache(t *testing.T) *store.AnswerCache {
	t.Helper()
	mr := miniredis.RunT(t)
	return store.NewAnswerCache(redisStore.NewTestStore(redis.NewClient(&redis.Options{Addr: mr.Addr()})))
}

func TestAnswer_DegradedAnswerNeverReachesCaches(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(e *MockEmbedder, v *MockVectorDB)
	}{
		{
			name: "Search_Failure",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB) {
				v.OnSearch = func(ctx context.Context, vec []float32, k int, category string) ([]string, []float32, error) {
					return nil, nil, vectorDB.ErrIndex
				}
			},
		},
		{
			name: "Embedding_Failure",
			setupMocks: func(e *MockEmbedder, v *MockVectorDB) {
				e.OnGetEmbedding = func(ctx context.Context, text string) ([]float32, error) {
					return nil, embedding.ErrEmbedding
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cache := newMiniredisCache(t)
			mEmbed := &MockEmbedder{}
			saved := make(chan string, 1)
			mVec := &MockVectorDB{
				OnSaveToCache: func(ctx context.Context, id string, vec []float32, answer string) error {
					saved <- answer
					return nil
				},
			}
			tt.setupMocks(mEmbed, mVec)

			s := rag.NewService(mVec, &MockLLM{}, mEmbed, cache, true)

			answer, err := s.Answer(testCtx(), rag.AnswerRequest{Category: "blight", Prompt: "q"})
			if err != nil {
				t.Fatalf("fail-open request must still answer: %v", err)
			}
			if answer == "" {
				t.Fatal("expected a degraded answer")
			}

			select {
			case a := <-saved:
				t.Errorf("answer generated without context reached the semantic cache: %q", a)
			case <-time.After(100 * time.Millisecond):
			}
			if cached, found := cache.Get(context.Background(), "blight", "q"); found {
				t.Errorf("answer generated without context reached the answer cache: %q", cached)
			}
		})
	}
}

func TestAnswer_HealthyAnswerReachesCaches(t *testing.T) {
	cache := newMiniredisCache(t)
	saved := make(chan string, 1)
	mVec := &MockVectorDB{
		OnSaveToCache: func(ctx context.Context, id string, vec []float32, answer string) error {
			saved <- answer
			return nil
		},
	}
	s := rag.NewService(mVec, &MockLLM{}, &MockEmbedder{}, cache, true)

	answer, err := s.Answer(testCtx(), rag.AnswerRequest{Category: "blight", Prompt: "q"})
	if err != nil {
		t.Fatal(err)
	}

	select {
	case a := <-saved:
		if a != answer {
			t.Errorf("semantic cache got %q, want %q", a, answer)
		}
	case <-time.After(time.Second):
		t.Error("expected the answer to reach the semantic cache")
	}
	if cached, found := cache.Get(context.Background(), "blight", "q"); !found || cached != answer {
		t.Errorf("answer cache = %q, %v; want %q", cached, found, answer)
	}
}

func TestAnswerStream_ForwardsFragmentsInOrder(t *testing.T) {
	mLLM := &MockLLM{
		OnGenerateStream: func(ctx context.Context, p prompt.Payload, emit func(string) error) error {
			for _, f := range []string{"Bli", "ght ", "answer"} {
				if err := emit(f); err != nil {
					return err
				}
			}
			return nil
		},
	}
	s := rag.NewService(&MockVectorDB{}, mLLM, &MockEmbedder{}, nil, true)

	var got []string
	err := s.AnswerStream(testCtx(), rag.AnswerRequest{Category: "blight", Prompt: "q"}, func(f string) error {
		got = append(got, f)
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(got, "") != "Blight answer" {
		t.Errorf("fragments out of order or missing: %v", got)
	}
}

func TestAnswerStream_ConsumerDisconnectStopsPulling(t *testing.T) {
	emitted := 0
	mLLM := &MockLLM{
		OnGenerateStream: func(ctx context.Context, p prompt.Payload, emit func(string) error) error {
			for i := 0; i < 10; i++ {
				if err := emit("x"); err != nil {
					return nil //upstream released, stream over
				}
				emitted++
			}
			return nil
		},
	}
	s := rag.NewService(&MockVectorDB{}, mLLM, &MockEmbedder{}, nil, true)

	calls := 0
	err := s.AnswerStream(testCtx(), rag.AnswerRequest{Prompt: "q"}, func(string) error {
		calls++
		if calls >= 2 {
			return errors.New("client went away")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("consumer disconnect is not a service error: %v", err)
	}
	if emitted > 2 {
		t.Errorf("stream kept pulling after disconnect: %d fragments", emitted)
	}
}

func TestAnswerStream_SemanticCacheHitEmittedWhole(t *testing.T) {
	mVec := &MockVectorDB{
		OnGetCachedAnswer: func(ctx context.Context, emb []float32) (string, bool, error) {
			return "cached answer", true, nil
		},
	}
	mLLM := &MockLLM{
		OnGenerateStream: func(ctx context.Context, p prompt.Payload, emit func(string) error) error {
			t.Error("LLM must not stream on a cache hit")
			return nil
		},
	}
	s := rag.NewService(mVec, mLLM, &MockEmbedder{}, nil, true)

	var got []string
	if err := s.AnswerStream(testCtx(), rag.AnswerRequest{Prompt: "q"}, func(f string) error {
		got = append(got, f)
		return nil
	}); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "cached answer" {
		t.Errorf("expected single cached fragment, got %v", got)
	}
}
