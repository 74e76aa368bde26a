package wordpress

import "strings"

const postFields = `
  id
  databaseId
  slug
  title
  date
  modified
  content
  excerpt
  status
  author {
    node {
      databaseId
      name
      slug
      description
      avatar {
        url
      }
    }
  }
  featuredImage {
    node {
      sourceUrl
      altText
      mediaDetails {
        width
        height
      }
    }
  }
  categories {
    nodes {
      databaseId
      slug
      name
      parentDatabaseId
    }
  }
  tags {
    nodes {
      databaseId
      slug
      name
    }
  }
`

// acfFields needs WPGraphQL for ACF.
const acfFields = `
  acfArticleMeta {
    wordCount
    readingTime
    primaryKeyword
    expertiseLevel
  }
  acfFaq {
    faqItems {
      question
      answer
    }
  }
  acfInternalLinks {
    links {
      url
      anchorText
      linkType
    }
  }
  acfEeat {
    authorExpertise
    credentials
    reviewProcess
    sourceMethodology
  }
`

// seoFields needs WPGraphQL for Rank Math SEO.
const seoFields = `
  seo {
    title
    description
    canonicalUrl
    robots
    openGraph {
      image {
        url
      }
    }
    jsonLd {
      raw
    }
  }
`

const postConnection = `
      pageInfo {
        hasNextPage
        endCursor
      }
      nodes {
        {{POST_FIELDS}}
      }
`

const postsQuery = `
  query GetPosts($first: Int, $after: String) {
    posts(first: $first, after: $after, where: { status: PUBLISH }) {` + postConnection + `    }
  }
`

const postBySlugQuery = `
  query GetPostBySlug($slug: ID!) {
    post(id: $slug, idType: SLUG) {
      {{POST_FIELDS}}
    }
  }
`

const postsByCategoryQuery = `
  query GetPostsByCategory($categoryId: Int!, $first: Int, $after: String) {
    posts(
      first: $first
      after: $after
      where: { status: PUBLISH, categoryId: $categoryId }
    ) {` + postConnection + `    }
  }
`

const postsByCategoriesQuery = `
  query GetPostsByCategories($categoryIn: [ID]!, $first: Int, $after: String) {
    posts(
      first: $first
      after: $after
      where: { status: PUBLISH, categoryIn: $categoryIn }
    ) {` + postConnection + `    }
  }
`

const searchPostsQuery = `
  query SearchPosts($search: String!, $first: Int, $after: String) {
    posts(
      first: $first
      after: $after
      where: { status: PUBLISH, search: $search }
    ) {` + postConnection + `    }
  }
`

const categoriesQuery = `
  query GetCategories {
    categories(first: 100) {
      nodes {
        databaseId
        slug
        name
        description
        count
        parentDatabaseId
      }
    }
  }
`

const categoryBySlugQuery = `
  query GetCategoryBySlug($slug: ID!) {
    category(id: $slug, idType: SLUG) {
      databaseId
      slug
      name
      description
      count
      parentDatabaseId
    }
  }
`

const pageBySlugQuery = `
  query GetPageBySlug($slug: ID!) {
    page(id: $slug, idType: URI) {
      id
      databaseId
      slug
      title
      content
      date
      modified
      featuredImage {
        node {
          sourceUrl
          altText
          mediaDetails {
            width
            height
          }
        }
      }
      {{SEO_FIELDS}}
    }
  }
`

const commentsByPostQuery = `
  query GetCommentsByPost($postId: ID!, $first: Int, $after: String) {
    comments(
      first: $first
      after: $after
      where: { contentId: $postId, status: "approve" }
    ) {
      pageInfo {
        hasNextPage
        endCursor
      }
      nodes {
        databaseId
        content
        date
        author {
          node {
            name
            avatar {
              url
            }
          }
        }
        parentDatabaseId
      }
    }
  }
`

const authorBySlugQuery = `
  query GetAuthorBySlug($slug: ID!) {
    user(id: $slug, idType: SLUG) {
      id
      databaseId
      name
      slug
      description
      url
      avatar {
        url
      }
      posts(first: 50, where: { status: PUBLISH }) {
        nodes {
          id
          databaseId
          title
          slug
          excerpt
          date
          categories {
            nodes {
              databaseId
              slug
              name
              parentDatabaseId
            }
          }
          featuredImage {
            node {
              sourceUrl
              altText
              mediaDetails {
                width
                height
              }
            }
          }
        }
      }
    }
  }
`

const allAuthorsQuery = `
  query GetAllAuthors {
    users(first: 100) {
      nodes {
        id
        databaseId
        name
        slug
        description
        url
        avatar {
          url
        }
      }
    }
  }
`

// Features selects the optional field groups the CMS has plugins for.
type Features struct {
	ACF bool
	SEO bool
}

// queries holds the documents of one Features combination.
type queries struct {
	posts             string
	postBySlug        string
	postsByCategory   string
	postsByCategories string
	search            string
	categories        string
	categoryBySlug    string
	pageBySlug        string
	comments          string
	authorBySlug      string
	allAuthors        string
}

func buildQueries(f Features) queries {
	fields := postFields
	if f.ACF {
		fields += acfFields
	}
	seo := ""
	if f.SEO {
		fields += seoFields
		seo = seoFields
	}

	r := strings.NewReplacer("{{POST_FIELDS}}", fields, "{{SEO_FIELDS}}", seo)
	return queries{
		posts:             r.Replace(postsQuery),
		postBySlug:        r.Replace(postBySlugQuery),
		postsByCategory:   r.Replace(postsByCategoryQuery),
		postsByCategories: r.Replace(postsByCategoriesQuery),
		search:            r.Replace(searchPostsQuery),
		categories:        categoriesQuery,
		categoryBySlug:    categoryBySlugQuery,
		pageBySlug:        r.Replace(pageBySlugQuery),
		comments:          commentsByPostQuery,
		authorBySlug:      authorBySlugQuery,
		allAuthors:        allAuthorsQuery,
	}
}
